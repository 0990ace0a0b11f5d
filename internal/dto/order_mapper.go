package dto

import "storefront/internal/domain"

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		resp := OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			resp.Product = &ProductSummary{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Slug:  item.Product.Slug,
				Image: item.Product.Image,
				Price: item.Product.Price,
			}
		}
		items = append(items, resp)
	}

	resp := OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          string(order.Status),
		Total:           order.Total,
		ShippingName:    order.ShippingName,
		ShippingEmail:   order.ShippingEmail,
		ShippingAddress: order.ShippingAddress,
		ShippingCity:    order.ShippingCity,
		ShippingZip:     order.ShippingZip,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Items:           items,
	}
	if order.User != nil {
		resp.User = &UserSummary{ID: order.User.ID, Name: order.User.Name, Email: order.User.Email}
	}
	return resp
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
