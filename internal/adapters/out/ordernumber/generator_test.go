package ordernumber

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Generate(t *testing.T) {
	at := time.Date(2025, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

	t.Run("should format prefix, UTC date and slug", func(t *testing.T) {
		g := NewGenerator("fd")
		g.slug = func() string { return "k3j9x2a" }

		assert.Equal(t, "FD-250316-k3j9x2a", g.Generate(at))
	})

	t.Run("should fall back to the default prefix", func(t *testing.T) {
		number := NewGenerator(" ").Generate(at)

		assert.Regexp(t, regexp.MustCompile(`^FD-250316-[0-9a-z]+$`), number)
	})

	t.Run("should draw a fresh slug each time", func(t *testing.T) {
		g := NewGenerator("")
		seen := make(map[string]struct{})
		for range 50 {
			seen[g.Generate(at)] = struct{}{}
		}

		assert.Len(t, seen, 50)
	})
}
