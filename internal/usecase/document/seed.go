package document

import (
	domdoc "github.com/kailas-cloud/tripagent/internal/domain/document"
)

type seedDoc struct {
	id       string
	content  string
	metadata map[string]any
}

var seedDocs = []seedDoc{
	{
		id: "tokyo_guide_1",
		content: "Tokyo is a vibrant city blending tradition and modernity. Top attractions include " +
			"the Senso-ji temple in Asakusa, the Meiji Shrine, the Shibuya crossing and the view from " +
			"the Tokyo Skytree. The metro and JR lines make getting around easy; a Suica or Pasmo card " +
			"works on most trains and buses. Try sushi at Tsukiji outer market and ramen in Shinjuku.",
		metadata: map[string]any{
			domdoc.MetaType:     "destination_guide",
			domdoc.MetaLocation: "Tokyo, Japan",
			domdoc.MetaTags:     []string{"tokyo", "japan", "attractions", "culture", "food", "transport"},
			domdoc.MetaSource:   "built-in",
		},
	},
	{
		id: "paris_guide_1",
		content: "Paris, the capital of France, is known for art, cuisine and architecture. Must-see " +
			"sights are the Eiffel Tower, the Louvre, Notre-Dame and Montmartre. Museums are often free " +
			"on the first Sunday of the month. The Metro covers the whole city, and walking along the " +
			"Seine is one of the best ways to explore the historic center.",
		metadata: map[string]any{
			domdoc.MetaType:     "destination_guide",
			domdoc.MetaLocation: "Paris, France",
			domdoc.MetaTags:     []string{"paris", "france", "attractions", "museums", "food"},
			domdoc.MetaSource:   "built-in",
		},
	},
	{
		id: "sustainability_guide_1",
		content: "Sustainable travel means reducing your footprint while supporting local communities. " +
			"Prefer trains over short-haul flights, stay in locally owned accommodation, carry a " +
			"reusable water bottle and shop at local markets. Respect wildlife and protected areas, " +
			"and consider offsetting unavoidable flight emissions.",
		metadata: map[string]any{
			domdoc.MetaType:   "travel_tips",
			domdoc.MetaTags:   []string{"sustainability", "eco-friendly", "green", "tips"},
			domdoc.MetaSource: "built-in",
		},
	},
	{
		id: "accessibility_guide_1",
		content: "Accessible travel starts with planning. Contact airlines in advance to arrange " +
			"wheelchair assistance, check that hotels offer step-free rooms and roll-in showers, and " +
			"look up which metro stations have elevators. Many museums offer free entry for a " +
			"companion and provide audio guides or tactile exhibits.",
		metadata: map[string]any{
			domdoc.MetaType:   "travel_tips",
			domdoc.MetaTags:   []string{"accessibility", "wheelchair", "mobility", "tips"},
			domdoc.MetaSource: "built-in",
		},
	},
}

// SeedCorpus returns the built-in cold-start documents.
func SeedCorpus() []domdoc.Document {
	docs := make([]domdoc.Document, len(seedDocs))
	for i, d := range seedDocs {
		docs[i] = domdoc.Reconstruct(d.id, d.content, d.metadata)
	}
	return docs
}
