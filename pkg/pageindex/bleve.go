package pageindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
)

// pageDocument is the Bleve-internal representation of one indexed page.
type pageDocument struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// bleveEngine wraps a Bleve index scoped to PageIndex's title/content/path
// schema. Adapted from the teacher's documentation search engine: a
// disjunction of match/prefix sub-queries over title and content, without
// fuzzy matching.
type bleveEngine struct {
	index bleve.Index
}

func openBleveEngine(indexPath string) (*bleveEngine, error) {
	index, err := bleve.Open(indexPath)
	if err != nil {
		index, err = bleve.New(indexPath, buildPageIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create bleve index: %w", err)
		}
	}

	return &bleveEngine{index: index}, nil
}

func (e *bleveEngine) indexDoc(id string, doc pageDocument) error {
	if err := e.index.Index(id, doc); err != nil {
		return fmt.Errorf("failed to index document %s: %w", id, err)
	}
	return nil
}

func (e *bleveEngine) remove(id string) error {
	if err := e.index.Delete(id); err != nil {
		return fmt.Errorf("failed to remove document %s: %w", id, err)
	}
	return nil
}

func (e *bleveEngine) search(query string, limit int) (*bleve.SearchResult, error) {
	q := buildPageSearchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"path", "title"}
	req.Highlight = bleve.NewHighlight()

	result, err := e.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return result, nil
}

func (e *bleveEngine) close() error {
	if err := e.index.Close(); err != nil {
		return fmt.Errorf("failed to close bleve index: %w", err)
	}
	return nil
}

func (e *bleveEngine) docCount() (uint64, error) {
	count, err := e.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}
	return count, nil
}

func buildPageIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.Store = true

	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("path", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// buildPageSearchQuery builds a disjunction of match and prefix queries
// over title and content for a single free-text query string.
func buildPageSearchQuery(userQuery string) bleveQuery.Query {
	term := userQuery
	if term == "" {
		return bleve.NewMatchNoneQuery()
	}

	titleMatch := bleve.NewMatchQuery(term)
	titleMatch.SetField("title")
	titleMatch.SetBoost(6.0)

	contentMatch := bleve.NewMatchQuery(term)
	contentMatch.SetField("content")
	contentMatch.SetBoost(3.0)

	titlePrefix := bleve.NewPrefixQuery(term)
	titlePrefix.SetField("title")
	titlePrefix.SetBoost(3.0)

	contentPrefix := bleve.NewPrefixQuery(term)
	contentPrefix.SetField("content")
	contentPrefix.SetBoost(1.5)

	return bleve.NewDisjunctionQuery(titleMatch, contentMatch, titlePrefix, contentPrefix)
}
