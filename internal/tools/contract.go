package tools

import (
	"context"

	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/usecase/search"
)

// Searcher is the knowledge base the built-in tools read from.
type Searcher interface {
	Query(ctx context.Context, text string, topK int, f filter.Filter) (search.Response, error)
	SearchByTags(ctx context.Context, text string, tags []string, topK int) (search.Response, error)
}

// WeatherService reports current conditions for a location.
type WeatherService interface {
	Weather(ctx context.Context, location, units string) (any, error)
}

// FlightService looks up flights between two places on a date (YYYY-MM-DD, optional).
type FlightService interface {
	SearchFlights(ctx context.Context, origin, destination, date string) (any, error)
}

// CountryService returns practical facts about a country.
type CountryService interface {
	CountryInfo(ctx context.Context, country string) (any, error)
}

// ItineraryService reads a stored itinerary.
type ItineraryService interface {
	Itinerary(ctx context.Context, id string) (any, error)
}

// Registrar accepts tool descriptors.
type Registrar interface {
	Register(desc domtool.Descriptor) error
}
