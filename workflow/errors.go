package workflow

import (
	"errors"

	"sareeapi/services"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrShotNotFound    = errors.New("shot not found")
	ErrNotEligible     = errors.New("product is not selected for this stage")
	ErrUnknownStage    = errors.New("unknown stage")
	ErrNotStarted      = errors.New("workflow has not been started")
)

const (
	MsgNoProductImages   = "Please upload at least one saree image."
	MsgNoModelFace       = "Please upload a model face image."
	MsgTooManyImages     = "You can upload up to 5 product images."
	MsgNothingToProceed  = "Please select at least one product to proceed."
	MsgInvalidPosition   = "Invalid product number."
	MsgSelfCopy          = "Cannot copy from the same product."
	MsgMissingSEOFields  = "Please enter Fabric, Design, and Cost Price to generate SKU and SEO."
	MsgNothingToDownload = "Please select at least one product to download."
	MsgUnknownDetailItem = "Unknown option for this field."
	MsgCancelled         = "The operation was cancelled."
)

func validation(msg string) error {
	return services.NewValidationError(msg)
}
