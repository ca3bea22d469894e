package taxonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBundleURL = "https://raw.githubusercontent.com/mitre/cti/master/enterprise-attack/enterprise-attack.json"

type Technique struct {
	ID          string
	Tactics     []string
	DataSources []string
}

// Provider abstracts the taxonomy source so the engine can run on fixtures.
type Provider interface {
	Load(ctx context.Context) (map[string]Technique, error)
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultBundleURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Load(ctx context.Context) (map[string]Technique, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build bundle request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch taxonomy bundle: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch taxonomy bundle: HTTP %d", resp.StatusCode)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy bundle: %w", err)
	}
	return ParseBundle(payload)
}

type bundle struct {
	Type    string            `json:"type"`
	Objects []json.RawMessage `json:"objects"`
}

type baseObject struct {
	Type string `json:"type"`
}

type attackPattern struct {
	Type         string              `json:"type"`
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ExternalRefs []externalReference `json:"external_references"`
	KillChain    []killChainPhase    `json:"kill_chain_phases"`
	DataSources  []string            `json:"x_mitre_data_sources"`
}

type killChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

type externalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
}

// ParseBundle indexes the attack-pattern objects of a STIX bundle by their
// ATT&CK technique ID. Last write wins on duplicate IDs.
func ParseBundle(payload []byte) (map[string]Technique, error) {
	var b bundle
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("parse taxonomy bundle: %w", err)
	}
	out := map[string]Technique{}
	for _, raw := range b.Objects {
		var bo baseObject
		if err := json.Unmarshal(raw, &bo); err != nil {
			continue
		}
		if bo.Type != "attack-pattern" {
			continue
		}
		var ap attackPattern
		if err := json.Unmarshal(raw, &ap); err != nil {
			continue
		}
		id, ok := externalID(ap.ExternalRefs)
		if !ok {
			continue
		}
		var tactics []string
		for _, kc := range ap.KillChain {
			if kc.KillChainName == "mitre-attack" {
				tactics = append(tactics, kc.PhaseName)
			}
		}
		if len(tactics) == 0 {
			continue
		}
		out[id] = Technique{
			ID:          id,
			Tactics:     tactics,
			DataSources: append([]string{}, ap.DataSources...),
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse taxonomy bundle: no techniques found")
	}
	return out, nil
}

func externalID(refs []externalReference) (string, bool) {
	for _, r := range refs {
		if strings.EqualFold(r.SourceName, "mitre-attack") && r.ExternalID != "" {
			return r.ExternalID, true
		}
	}
	return "", false
}

func AllDatasources(techniques map[string]Technique) map[string]bool {
	out := map[string]bool{}
	for _, t := range techniques {
		for _, ds := range t.DataSources {
			out[ds] = true
		}
	}
	return out
}
