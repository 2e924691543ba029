// README: Geocoding Service collaborator boundary.
package geocode

import (
	"context"
	"errors"

	"entrega/internal/types"
)

// ErrNoResult means the address could not be resolved. Callers treat it as
// "no coordinates", never as a request failure.
var ErrNoResult = errors.New("geocode: no result")

// Geocoder resolves a free-text address to coordinates. Implementations are
// network-backed and fallible; the assignment read path degrades gracefully
// when they fail.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}
