package api

import (
	"context"

	"github.com/code19m/errx"
)

type reverseRequest struct {
	Lat string `query:"lat" validate:"required"`
	Lon string `query:"lon" validate:"required"`
}

type reverseResponse struct {
	City string `json:"city"`
}

func (h *handler) reverse(ctx context.Context, req *reverseRequest) (*reverseResponse, error) {
	city, err := h.Geocoder.Reverse(ctx, req.Lat, req.Lon)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return &reverseResponse{City: city}, nil
}
