// Package static holds guidance texts served as MCP resources.
package static

// DataIngestProcess describes the safe order of operations when loading a
// modeled graph into Neo4j.
const DataIngestProcess = `
Follow these steps when ingesting data into Neo4j.
1. Create constraints before loading any data.
2. Load all nodes before relationships.
3. Then load relationships serially to avoid deadlocks.
`

// DataModelingTemplate is a fill-in request template that gathers the
// information needed to design a graph data model.
const DataModelingTemplate = `
# Graph Data Modeling Request Template

## Source Data Description
- **Data Format**: [CSV/JSON/XML/API/Database/Other]
- **Data Volume**: [Small (< 1M records) / Medium (1M-100M) / Large (> 100M)]
- **Data Sources**: [List your data sources - files, APIs, databases, etc.]

## Use Cases & Requirements
- **Primary Queries**: [What questions will you ask of the data?]
- **Scale Expectations**: [Expected number of nodes and relationships]
- **Business Goals**: [What are you trying to achieve?]

## Example Entities (Nodes)
Please provide examples of the main entities in your data:

### Entity 1: [Entity Name]
- **Properties**:
  - [property1]: [type] - [description]
  - [property2]: [type] - [description]
- **Key Property**: [What uniquely identifies this entity?]
- **Example Data**: [Sample values]

## Example Relationships
How do your entities connect to each other?

### Relationship 1: [Entity1] -> [Entity2]
- **Type**: [RELATIONSHIP_TYPE]
- **Direction**: [Unidirectional/Bidirectional]
- **Properties**: [Any properties on the relationship?]
- **Cardinality**: [One-to-One/One-to-Many/Many-to-Many]

## Additional Context
- **Domain**: [Business/Technical/Social/Other]
- **Special Requirements**: [Constraints, indexes, specific query patterns]
- **Integration Needs**: [How will this integrate with existing systems?]
- **Compliance**: [Any regulatory or compliance requirements?]
`
