package http

import (
	"orderengine/internal/core/domain/model/kernel"
)

type newOrderItemRequest struct {
	MenuItemRef         kernel.UUID `json:"menuItemRef"`
	Quantity            int         `json:"quantity"`
	OptionIDs           []string    `json:"optionIds"`
	SpecialInstructions string      `json:"specialInstructions"`
}

type newOrderRequest struct {
	OrderID          *kernel.UUID          `json:"orderId"`
	CustomerRef      kernel.UUID           `json:"customerRef"`
	RestaurantRef    kernel.UUID           `json:"restaurantRef"`
	Items            []newOrderItemRequest `json:"items"`
	DeliveryAddress  kernel.Address        `json:"deliveryAddress"`
	PaymentMethodRef string                `json:"paymentMethodRef"`
	PromoCodes       []string              `json:"promoCodes"`
	DistanceMeters   int                   `json:"distanceMeters"`
}

type paymentResultRequest struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

type actorRequest struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type transitionRequest struct {
	Status   string           `json:"status"`
	Actor    actorRequest     `json:"actor"`
	Message  string           `json:"message"`
	Location *kernel.GeoPoint `json:"location"`
	Reason   string           `json:"reason"`
}

type driverAssignmentRequest struct {
	DriverRef kernel.UUID `json:"driverRef"`
}

type trackingPingRequest struct {
	Message  string           `json:"message"`
	Location *kernel.GeoPoint `json:"location"`
}

type tipRequest struct {
	Amount kernel.Money `json:"amount"`
}

type reviewRequest struct {
	CustomerRating   int    `json:"customerRating"`
	DriverRating     int    `json:"driverRating"`
	RestaurantRating int    `json:"restaurantRating"`
	Comment          string `json:"comment"`
}
