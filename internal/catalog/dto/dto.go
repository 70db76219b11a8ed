package dto

import "github.com/wavemark/commerce-service/internal/model"

type ProductPage struct {
	Products   []model.Product `json:"products"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"limit"`
}
