// Package tools builds the travel tool descriptors registered at startup.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
	"github.com/kailas-cloud/tripagent/internal/domain/search/filter"
	domtool "github.com/kailas-cloud/tripagent/internal/domain/tool"
	"github.com/kailas-cloud/tripagent/internal/usecase/agent"
	"github.com/kailas-cloud/tripagent/internal/usecase/search"
)

// Tool names.
const (
	SearchKnowledge  = "search_travel_knowledge"
	DestinationGuide = "get_destination_guide"
	TravelTips       = "find_travel_tips"
	GetWeather       = "get_weather"
	SearchFlights    = "search_flights"
	GetCountryInfo   = "get_country_info"
	GetItinerary     = "get_itinerary"
)

const (
	guideType   = "destination_guide"
	defaultTopK = 3
	maxTopK     = 10
)

// tipTags maps a tip topic to the tag fragments that identify it in the corpus.
var tipTags = map[string][]string{
	"sustainability": {"sustainab", "eco", "green"},
	"accessibility":  {"accessib", "wheelchair", "mobility"},
	"budget":         {"budget", "cheap", "saving"},
	"safety":         {"safety", "safe", "scam"},
}

var tipTopics = []string{"sustainability", "accessibility", "budget", "safety"}

// Deps are the collaborators tools are built from. Search is required;
// each external service adds its tool only when set.
type Deps struct {
	Search      Searcher
	Weather     WeatherService
	Flights     FlightService
	Countries   CountryService
	Itineraries ItineraryService
}

// Hit is one knowledge snippet returned by the search tools.
type Hit struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Results is the payload of the knowledge tools.
type Results struct {
	Results  []Hit `json:"results"`
	Degraded bool  `json:"degraded,omitempty"`
}

// Build returns the descriptors available for deps.
func Build(deps Deps) []domtool.Descriptor {
	var out []domtool.Descriptor
	if deps.Search != nil {
		out = append(out, knowledgeTools(deps.Search)...)
	}
	if deps.Weather != nil {
		out = append(out, weatherTool(deps.Weather))
	}
	if deps.Flights != nil {
		out = append(out, flightsTool(deps.Flights))
	}
	if deps.Countries != nil {
		out = append(out, countryTool(deps.Countries))
	}
	if deps.Itineraries != nil {
		out = append(out, itineraryTool(deps.Itineraries))
	}
	return out
}

// Register builds the descriptors for deps and registers each one.
func Register(reg Registrar, deps Deps) (int, error) {
	descs := Build(deps)
	for _, d := range descs {
		if err := reg.Register(d); err != nil {
			return 0, fmt.Errorf("register %s: %w", d.Name, err)
		}
	}
	return len(descs), nil
}

func knowledgeTools(s Searcher) []domtool.Descriptor {
	return []domtool.Descriptor{
		{
			Name:        SearchKnowledge,
			Description: "Search the travel knowledge base for guides, tips and destination facts",
			Parameters: []domtool.Parameter{
				{Name: "query", Type: domtool.TypeString, Required: true, Description: "What to look for"},
				{Name: "type", Type: domtool.TypeString, Description: "Restrict to a document type, e.g. destination_guide or travel_tips"},
				{Name: "top_k", Type: domtool.TypeInteger, Description: "Number of results, 1-10"},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				query := stringParam(params, "query")
				if query == "" {
					query = agent.MessageFromContext(ctx)
				}
				var opts []filter.Option
				if t := stringParam(params, "type"); t != "" {
					opts = append(opts, filter.WithType(t))
				}
				resp, err := s.Query(ctx, query, topKParam(params), filter.New(opts...))
				if err != nil {
					return nil, fmt.Errorf("search knowledge: %w", err)
				}
				return toResults(resp), nil
			},
		},
		{
			Name:        DestinationGuide,
			Description: "Get the destination guide for a city or country: attractions, transport, food",
			Parameters: []domtool.Parameter{
				{Name: "destination", Type: domtool.TypeString, Required: true, Description: "City or country name"},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				dest := stringParam(params, "destination")
				if dest == "" {
					return nil, errors.New("destination is empty")
				}
				f := filter.New(filter.WithType(guideType), filter.WithLocation(dest))
				resp, err := s.Query(ctx, "travel guide for "+dest, defaultTopK, f)
				if err != nil {
					return nil, fmt.Errorf("destination guide: %w", err)
				}
				if len(resp.Results) == 0 {
					return map[string]any{
						"destination": dest,
						"found":       false,
						"message":     fmt.Sprintf("No destination guide is available for %s yet.", dest),
					}, nil
				}
				best := resp.Results[0]
				return map[string]any{
					"destination": dest,
					"found":       true,
					"guide":       toHit(best.ID(), best.Content(), best.Score(), best.Metadata()),
				}, nil
			},
		},
		{
			Name:        TravelTips,
			Description: "Find practical travel tips on a topic",
			Parameters: []domtool.Parameter{
				{Name: "topic", Type: domtool.TypeString, Required: true, Enum: tipTopics},
			},
			Handler: func(ctx context.Context, params map[string]any) (any, error) {
				topic := strings.ToLower(stringParam(params, "topic"))
				tags, ok := tipTags[topic]
				if !ok {
					return nil, fmt.Errorf("unknown topic %q", topic)
				}
				query := agent.MessageFromContext(ctx)
				if strings.TrimSpace(query) == "" {
					query = topic + " travel tips"
				}
				resp, err := s.SearchByTags(ctx, query, tags, defaultTopK)
				if err != nil {
					return nil, fmt.Errorf("travel tips: %w", err)
				}
				out := toResults(resp)
				return map[string]any{"topic": topic, "tips": out.Results, "degraded": out.Degraded}, nil
			},
		},
	}
}

func weatherTool(w WeatherService) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        GetWeather,
		Description: "Current weather and short forecast for a location",
		Parameters: []domtool.Parameter{
			{Name: "location", Type: domtool.TypeString, Required: true, Description: "City name"},
			{Name: "units", Type: domtool.TypeString, Enum: []string{"metric", "imperial"}},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			units := stringParam(params, "units")
			if units == "" {
				units = "metric"
			}
			return w.Weather(ctx, stringParam(params, "location"), units)
		},
	}
}

func flightsTool(f FlightService) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        SearchFlights,
		Description: "Search flights between two cities",
		Parameters: []domtool.Parameter{
			{Name: "origin", Type: domtool.TypeString, Required: true},
			{Name: "destination", Type: domtool.TypeString, Required: true},
			{Name: "date", Type: domtool.TypeString, Description: "Departure date, YYYY-MM-DD"},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return f.SearchFlights(ctx,
				stringParam(params, "origin"),
				stringParam(params, "destination"),
				stringParam(params, "date"),
			)
		},
	}
}

func countryTool(c CountryService) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        GetCountryInfo,
		Description: "Currency, language, visa and plug information for a country",
		Parameters: []domtool.Parameter{
			{Name: "country", Type: domtool.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return c.CountryInfo(ctx, stringParam(params, "country"))
		},
	}
}

func itineraryTool(i ItineraryService) domtool.Descriptor {
	return domtool.Descriptor{
		Name:        GetItinerary,
		Description: "Read the user's itinerary: stops, dates and bookings",
		Parameters: []domtool.Parameter{
			{Name: "itinerary_id", Type: domtool.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, params map[string]any) (any, error) {
			return i.Itinerary(ctx, stringParam(params, "itinerary_id"))
		},
	}
}

func toResults(resp search.Response) Results {
	hits := make([]Hit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, toHit(r.ID(), r.Content(), r.Score(), r.Metadata()))
	}
	return Results{Results: hits, Degraded: resp.Degraded}
}

func toHit(id, content string, score float64, meta map[string]any) Hit {
	h := Hit{ID: id, Content: content, Score: score}
	if len(meta) > 0 {
		h.Metadata = make(map[string]any, 3)
		for _, k := range []string{domdoc.MetaType, domdoc.MetaLocation, domdoc.MetaTags} {
			if v, ok := meta[k]; ok {
				h.Metadata[k] = v
			}
		}
	}
	return h
}
