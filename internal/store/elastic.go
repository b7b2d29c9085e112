// internal/store/elastic.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticPrefilter answers QueryCandidates from an elasticsearch index kept
// in sync by the ingestion pipeline. Document fields: companies, departments,
// location (keyword, lowercased) and total_experience_months (integer).
type ElasticPrefilter struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticPrefilter(es *elasticsearch.Client, index string, log logger.Logger) *ElasticPrefilter {
	return &ElasticPrefilter{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "elastic-prefilter"}),
	}
}

func (e *ElasticPrefilter) QueryCandidates(ctx context.Context, filter Filter) ([]string, error) {
	var must []map[string]interface{}

	if len(filter.Companies) > 0 {
		must = append(must, map[string]interface{}{
			"terms": map[string]interface{}{"companies": lowerAll(filter.Companies)},
		})
	}
	if len(filter.Departments) > 0 {
		must = append(must, map[string]interface{}{
			"terms": map[string]interface{}{"departments": lowerAll(filter.Departments)},
		})
	}
	if len(filter.Locations) > 0 {
		must = append(must, map[string]interface{}{
			"terms": map[string]interface{}{"location": lowerAll(filter.Locations)},
		})
	}
	if filter.MinExperienceMonths != nil || filter.MaxExperienceMonths != nil {
		bounds := map[string]interface{}{}
		if filter.MinExperienceMonths != nil {
			bounds["gte"] = *filter.MinExperienceMonths
		}
		if filter.MaxExperienceMonths != nil {
			bounds["lte"] = *filter.MaxExperienceMonths
		}
		must = append(must, map[string]interface{}{
			"range": map[string]interface{}{"total_experience_months": bounds},
		})
	}

	query := map[string]interface{}{
		"query":   map[string]interface{}{"bool": map[string]interface{}{"filter": must}},
		"_source": false,
		"size":    10000,
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Internal("prefilter query encode failed", err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.Unavailable("elasticsearch query failed", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.Unavailable("elasticsearch query failed",
			fmt.Errorf("status %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Unavailable("elasticsearch response decode failed", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// PrefilteredStore routes QueryCandidates through a dedicated prefilter
// backend while profile loads stay on the primary store.
type PrefilteredStore struct {
	Store
	prefilter *ElasticPrefilter
}

func NewPrefilteredStore(primary Store, prefilter *ElasticPrefilter) *PrefilteredStore {
	return &PrefilteredStore{Store: primary, prefilter: prefilter}
}

func (s *PrefilteredStore) QueryCandidates(ctx context.Context, filter Filter) ([]string, error) {
	return s.prefilter.QueryCandidates(ctx, filter)
}
