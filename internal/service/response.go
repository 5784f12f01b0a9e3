package service

import (
	"errors"
	"net/http"

	"anonymizer/internal/blob"
	"anonymizer/internal/dto"
)

const (
	messageMissingInput = "Input parameters 'image' or 'filtered_image' missing. Exiting."
	messageNotS3        = "Provided URL not an S3 URL: "
	messageNotFound     = "The object does not exist: "
	messageDownload     = "The object could not be downloaded: "
	messageUpload       = "Failed to upload: "
	messageProcessing   = "The image could not be anonymized: "
	messageUploaded     = "image uploaded to as: "
)

// BuildResponse maps the terminal state of an invocation to its response.
// A nil err means the anonymized image was uploaded.
func BuildResponse(req dto.Request, err error) dto.Response {
	if err == nil {
		return dto.NewResponse(dto.Code(http.StatusOK), messageUploaded+req.FilteredImage)
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Err == nil {
			return dto.NewResponse(dto.Code(http.StatusInternalServerError), messageMissingInput)
		}
		return dto.NewResponse(dto.Code(http.StatusInternalServerError), messageNotS3+reqErr.Value)
	}

	var blobErr *blob.Error
	if errors.As(err, &blobErr) {
		code := dto.StatusCode(blob.ErrorCode(blobErr))
		switch {
		case blobErr.Op == "upload":
			return dto.NewResponse(code, messageUpload+req.FilteredImage)
		case errors.Is(blobErr, blob.ErrNotFound):
			return dto.NewResponse(code, messageNotFound+req.Image)
		default:
			return dto.NewResponse(code, messageDownload+req.Image)
		}
	}

	return dto.NewResponse(dto.Code(http.StatusInternalServerError), messageProcessing+req.Image)
}
