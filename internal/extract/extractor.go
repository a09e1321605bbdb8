package extract

import (
	"context"

	"github.com/kvasirlabs/leadscan/internal/fetch"
	"github.com/kvasirlabs/leadscan/internal/model"
)

// Extractor produces decision-maker records from a fetched page.
//
// Implementations must treat unusable model output as zero records, not
// as an error: the crawl engine counts an error as a skipped page, and a
// page the model answered nonsense for was still crawled.
type Extractor interface {
	Extract(ctx context.Context, page *fetch.Page) ([]model.Person, error)
}

// ValidateFunc decides whether an extracted candidate is plausible
// enough to keep. See ValidatePerson for the default policy.
type ValidateFunc func(model.Person) bool
