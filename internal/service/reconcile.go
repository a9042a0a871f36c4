package service

import (
	"encoding/json"
	"sort"

	"wifimon/internal/domain"
)

// membership maps sources whose list is complete to the flag they own. When such
// a source finished, a network it did not list is known not to carry the flag.
var membership = map[domain.SourceTag]func(r *domain.NetworkRecord, f *domain.Field[bool]){
	domain.SourcePreferred: func(r *domain.NetworkRecord, f *domain.Field[bool]) {
		if r.Saved == nil {
			r.Saved = f
		}
	},
	domain.SourceConnection: func(r *domain.NetworkRecord, f *domain.Field[bool]) {
		if r.Connected == nil {
			r.Connected = f
		}
	},
}

// Merge reconciles partial records into one record per network ID.
//
// Field values come from the highest priority source that reported them
// (domain.SourcePriority); fields nobody reported stay nil. complete lists the
// sources that ran to completion: preferred and connection then mark networks
// they did not report as not saved or not connected. Partials with an empty ID
// are ignored. The result is sorted by ID and is the same for every ordering of
// partials.
func Merge(partials []domain.PartialNetworkRecord, complete ...domain.SourceTag) []domain.NetworkRecord {
	sorted := make([]keyed, 0, len(partials))
	for _, p := range partials {
		if p.ID == "" {
			continue
		}
		sorted = append(sorted, keyed{rec: p, key: canonicalKey(p)})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.rec.ID != b.rec.ID {
			return a.rec.ID < b.rec.ID
		}
		if ra, rb := a.rec.Source.Rank(), b.rec.Source.Rank(); ra != rb {
			return ra < rb
		}
		if a.rec.Source != b.rec.Source {
			return a.rec.Source < b.rec.Source
		}
		return a.key < b.key
	})

	var records []domain.NetworkRecord
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].rec.ID == sorted[start].rec.ID {
			end++
		}
		group := make([]domain.PartialNetworkRecord, 0, end-start)
		for _, k := range sorted[start:end] {
			group = append(group, k.rec)
		}
		records = append(records, mergeGroup(group))
		start = end
	}

	seen := make(map[domain.SourceTag]bool, len(complete))
	for _, src := range complete {
		apply, ok := membership[src]
		if !ok || seen[src] {
			continue
		}
		seen[src] = true
		for i := range records {
			apply(&records[i], &domain.Field[bool]{Value: false, Source: src})
		}
	}

	if records == nil {
		records = []domain.NetworkRecord{}
	}
	return records
}

type keyed struct {
	rec domain.PartialNetworkRecord
	key string
}

// canonicalKey orders partials from the same source for the same network, which
// only happens when callers merge unparsed input
func canonicalKey(p domain.PartialNetworkRecord) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// mergeGroup merges partials for one ID, already in resolution order
func mergeGroup(group []domain.PartialNetworkRecord) domain.NetworkRecord {
	r := domain.NetworkRecord{ID: group[0].ID}

	r.SignalDBM = pick(group, func(p *domain.PartialNetworkRecord) *int { return p.SignalDBM })
	r.NoiseDBM = pick(group, func(p *domain.PartialNetworkRecord) *int { return p.NoiseDBM })
	r.Channel = pick(group, func(p *domain.PartialNetworkRecord) *int { return p.Channel })
	r.ChannelSpec = pick(group, func(p *domain.PartialNetworkRecord) *string { return p.ChannelSpec })
	r.Security = pick(group, func(p *domain.PartialNetworkRecord) *string { return p.Security })
	r.BSSID = pick(group, func(p *domain.PartialNetworkRecord) *string { return p.BSSID })
	r.TxRateMbps = pick(group, func(p *domain.PartialNetworkRecord) *float64 { return p.TxRateMbps })
	r.MaxRateMbps = pick(group, func(p *domain.PartialNetworkRecord) *float64 { return p.MaxRateMbps })
	r.Saved = pick(group, func(p *domain.PartialNetworkRecord) *bool { return p.Saved })
	r.Connected = pick(group, func(p *domain.PartialNetworkRecord) *bool { return p.Connected })

	for _, p := range group {
		if n := len(r.Sources); n == 0 || r.Sources[n-1] != p.Source {
			r.Sources = append(r.Sources, p.Source)
		}
	}
	return r
}

func pick[T any](group []domain.PartialNetworkRecord, get func(*domain.PartialNetworkRecord) *T) *domain.Field[T] {
	for i := range group {
		if v := get(&group[i]); v != nil {
			return &domain.Field[T]{Value: *v, Source: group[i].Source}
		}
	}
	return nil
}
