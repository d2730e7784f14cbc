package dataimport

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"github.com/graphmodel-inc/graphmodel-engine/pkg/models"
)

// modelFromLabels builds a deterministic model: each label becomes a node
// with an id key and a name property, and consecutive nodes are chained with
// CONNECTS relationships.
func modelFromLabels(labels []string) (*models.DataModel, error) {
	nodes := make([]models.Node, 0, len(labels))
	for _, label := range labels {
		nodes = append(nodes, models.Node{
			Label:       label,
			KeyProperty: models.NewProperty("id", "STRING"),
			Properties:  []models.Property{models.NewProperty("name", "STRING")},
		})
	}
	rels := make([]models.Relationship, 0, len(labels))
	for i := 0; i+1 < len(labels); i++ {
		rels = append(rels, models.Relationship{
			Type:           fmt.Sprintf("CONNECTS_%d", i),
			StartNodeLabel: labels[i],
			EndNodeLabel:   labels[i+1],
		})
	}
	return models.NewDataModel(nodes, rels)
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := labels[:0]
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

func TestRoundTripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	converter := NewConverter(zap.NewNop())

	properties.Property("import of an export preserves labels and patterns", prop.ForAll(
		func(rawLabels []string) bool {
			labels := dedupe(rawLabels)
			if len(labels) == 0 {
				return true
			}
			m, err := modelFromLabels(labels)
			if err != nil {
				return false
			}

			doc, err := converter.ToDocument(m)
			if err != nil {
				return false
			}
			roundTripped, err := converter.FromDocument(doc)
			if err != nil {
				return false
			}

			if len(roundTripped.Nodes) != len(m.Nodes) || len(roundTripped.Relationships) != len(m.Relationships) {
				return false
			}
			for i := range m.Nodes {
				if roundTripped.Nodes[i].Label != m.Nodes[i].Label {
					return false
				}
				if roundTripped.Nodes[i].KeyProperty.Name != m.Nodes[i].KeyProperty.Name {
					return false
				}
			}
			for i := range m.Relationships {
				if roundTripped.Relationships[i].Pattern() != m.Relationships[i].Pattern() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("a second export is byte-stable", prop.ForAll(
		func(rawLabels []string) bool {
			labels := dedupe(rawLabels)
			if len(labels) == 0 {
				return true
			}
			m, err := modelFromLabels(labels)
			if err != nil {
				return false
			}

			doc, err := converter.ToDocument(m)
			if err != nil {
				return false
			}
			roundTripped, err := converter.FromDocument(doc)
			if err != nil {
				return false
			}
			doc2, err := converter.ToDocument(roundTripped)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(doc, doc2)
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
