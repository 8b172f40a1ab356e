package ports

import (
	"context"

	"goclean/domain/cleaning"
)

// DatasetSource loads a raw dataset, for example from a file or a request body
type DatasetSource interface {
	Load(ctx context.Context) (*cleaning.Dataset, error)
}

// DatasetSink writes a cleaned dataset
type DatasetSink interface {
	Write(ctx context.Context, ds *cleaning.Dataset) error
}
