package discogs

import (
	"encoding/json"
	"strconv"
	"strings"

	"tracksift/internal/catalog"
)

// flexInt decodes numbers the API sometimes sends as strings ("2001", "2").
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Year     flexInt `json:"year"`
	MasterID int64   `json:"master_id"`
}

func (r searchResult) hit() catalog.Hit {
	return catalog.Hit{
		ID:       r.ID,
		Type:     catalog.HitType(r.Type),
		Title:    r.Title,
		Year:     int(r.Year),
		MasterID: r.MasterID,
	}
}

type versionsResponse struct {
	Versions []version `json:"versions"`
}

type version struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Released flexInt `json:"released"`
	Format   string  `json:"format"`
}

type artistReleasesResponse struct {
	Releases []artistRelease `json:"releases"`
}

type artistRelease struct {
	ID    int64   `json:"id"`
	Type  string  `json:"type"`
	Title string  `json:"title"`
	Year  flexInt `json:"year"`
}

type releasePayload struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Year           flexInt        `json:"year"`
	Artists        []artistCredit `json:"artists"`
	Formats        []formatEntry  `json:"formats"`
	FormatQuantity flexInt        `json:"format_quantity"`
	Tracklist      []trackEntry   `json:"tracklist"`
	MasterID       int64          `json:"master_id"`
}

type artistCredit struct {
	Name string `json:"name"`
}

type formatEntry struct {
	Name string  `json:"name"`
	Qty  flexInt `json:"qty"`
}

type trackEntry struct {
	Position string `json:"position"`
	Type     string `json:"type_"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

func (p releasePayload) release() catalog.Release {
	rel := catalog.Release{
		ID:             p.ID,
		Title:          strings.TrimSpace(p.Title),
		Year:           int(p.Year),
		FormatQuantity: int(p.FormatQuantity),
		MasterID:       p.MasterID,
		Tracklist:      convertTracks(p.Tracklist),
	}
	for _, a := range p.Artists {
		rel.Artists = append(rel.Artists, a.Name)
	}
	for _, f := range p.Formats {
		rel.Formats = append(rel.Formats, catalog.Format{
			Name: f.Name,
			Qty:  int(f.Qty),
		})
	}
	return rel
}

func convertTracks(entries []trackEntry) []catalog.Track {
	out := make([]catalog.Track, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalog.Track{
			Position: strings.TrimSpace(e.Position),
			Type:     e.Type,
			Title:    e.Title,
			Duration: strings.TrimSpace(e.Duration),
		})
	}
	return out
}
