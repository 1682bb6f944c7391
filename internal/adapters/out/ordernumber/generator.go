// Package ordernumber generates human-facing order numbers such as
// FD-250315-k3j9x2a. Numbers are not guaranteed unique; the order store
// rejects duplicates and callers draw again.
package ordernumber

import (
	"strings"
	"time"

	"github.com/lucsky/cuid"

	"orderengine/internal/core/ports"
)

const DefaultPrefix = "FD"

var _ ports.OrderNumberGenerator = &Generator{}

type Generator struct {
	prefix string
	slug   func() string
}

func NewGenerator(prefix string) *Generator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix, slug: cuid.Slug}
}

// Generate formats the number from the UTC date of at and a fresh cuid slug.
func (g *Generator) Generate(at time.Time) string {
	return g.prefix + "-" + at.UTC().Format("060102") + "-" + g.slug()
}
