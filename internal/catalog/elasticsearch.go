package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"creator-campaign-workers/internal/eligibility"
)

type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	return &ElasticsearchSource{client: client, index: index}
}

type campaignDocument struct {
	Active                bool   `json:"active"`
	GenderTarget          string `json:"genderTarget"`
	MinAge                *int   `json:"minAge"`
	MinFollowers          int    `json:"minFollowers"`
	RequiresPublicProfile *bool  `json:"requiresPublicProfile"`
	LocationLabel         string `json:"locationLabel"`
	GenderLabel           string `json:"genderLabel"`
}

type getResponse struct {
	Found  bool             `json:"found"`
	Source campaignDocument `json:"_source"`
}

func (s *ElasticsearchSource) Requirement(ctx context.Context, campaignID string) (eligibility.CampaignRequirement, error) {
	res, err := s.client.Get(s.index, campaignID, s.client.Get.WithContext(ctx))
	if err != nil {
		return eligibility.CampaignRequirement{}, fmt.Errorf("%w: elasticsearch: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return eligibility.CampaignRequirement{}, fmt.Errorf("%w: %s", ErrCampaignNotFound, campaignID)
	}
	if res.IsError() {
		return eligibility.CampaignRequirement{}, fmt.Errorf("%w: elasticsearch: %s", ErrUnavailable, res.Status())
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return eligibility.CampaignRequirement{}, fmt.Errorf("%w: campaign %s: decode: %v", ErrInvalidRequirement, campaignID, err)
	}
	if !doc.Found || !doc.Source.Active {
		return eligibility.CampaignRequirement{}, fmt.Errorf("%w: %s", ErrCampaignNotFound, campaignID)
	}

	req := eligibility.CampaignRequirement{
		GenderTarget:          normalizeGenderTarget(doc.Source.GenderTarget),
		MinAge:                doc.Source.MinAge,
		MinFollowers:          doc.Source.MinFollowers,
		RequiresPublicProfile: doc.Source.RequiresPublicProfile,
		LocationLabel:         doc.Source.LocationLabel,
		GenderLabel:           doc.Source.GenderLabel,
	}
	if err := checkRequirement(campaignID, req); err != nil {
		return eligibility.CampaignRequirement{}, err
	}
	return req, nil
}
