// Package feed ranks blogs for a reader by how many tags they share with the
// reader's interests. Posts sharing no tag are filtered out, not ranked last.
// Among equal counts the storage order is kept; that order is not part of the contract.
package feed

import (
	"math"
	"sort"
	"strings"

	"github.com/crucial707/blogfeed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountField is the name of the computed overlap field.
const CountField = "commonTagsCount"

// Offset converts a 1-based page into a skip count. It saturates at math.MaxInt
// instead of wrapping.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PageInRange reports whether page can be turned into an offset without saturating.
func PageInRange(page, limit int) bool {
	return limit < 1 || page <= math.MaxInt/limit
}

// NormalizeTags trims tags, drops empty ones and removes duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Overlap returns |a ∩ b| treating both as sets.
func Overlap(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(a))
	for _, t := range a {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// Pipeline builds the aggregation run against the blogs collection:
// match → addFields(commonTagsCount) → sort → skip → limit.
func Pipeline(tags []string, skip, limit int) mongo.Pipeline {
	if tags == nil {
		tags = []string{}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "tags", Value: bson.D{{Key: "$in", Value: tags}}}}}},
		{{Key: "$addFields", Value: bson.D{{Key: CountField, Value: bson.D{
			{Key: "$size", Value: bson.D{{Key: "$setIntersection", Value: bson.A{"$tags", tags}}}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: CountField, Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}

// Rank applies the same steps as Pipeline to blogs already in storage order.
func Rank(blogs []models.Blog, tags []string, skip, limit int) []models.RankedBlog {
	ranked := make([]models.RankedBlog, 0)
	for _, b := range blogs {
		n := Overlap(b.Tags, tags)
		if n == 0 {
			continue
		}
		ranked = append(ranked, models.RankedBlog{Blog: b, CommonTagsCount: n})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CommonTagsCount > ranked[j].CommonTagsCount
	})
	if skip < 0 || skip >= len(ranked) || limit <= 0 {
		return []models.RankedBlog{}
	}
	end := skip + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[skip:end]
}
