package catalog

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"bellashop/internal/domain"
)

// Rand is the randomness the description generator needs; *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
	Float64() float64
	IntN(n int) int
}

// Pools maps a pool key (usually a category keyword) to candidate sentences.
type Pools map[string][]string

// DefaultPools ships with the service and can be overridden per key from storage.
func DefaultPools() Pools {
	return Pools{
		"sofa": {
			"Designed for comfortable seating and relaxation.",
			"Ideal for living rooms and family areas.",
			"Upholstered finish for an inviting look and feel.",
		},
		"wardrobe": {
			"Provides organized storage for clothes and household items.",
			"Helps keep your space tidy and clutter-free.",
			"Built for durability and everyday use.",
		},
		"cabinet": {
			"Provides organized storage for clothes and household items.",
			"Helps keep your space tidy and clutter-free.",
			"Compact design suitable for various room layouts.",
		},
		"kitchen": {
			"Suitable for kitchen use and daily food preparation.",
			"Practical item for household kitchen needs.",
			"Easy to clean and maintain for busy kitchens.",
		},
		"appliance": {
			"Designed to support airflow and ventilation.",
			"Useful appliance for everyday comfort.",
			"Energy-efficient design for cost savings.",
		},
		"divider": {
			"Functional piece suitable for home or shop use.",
			"Can be used for display or space separation.",
			"Adds structure while maintaining visual appeal.",
		},
		"display": {
			"Functional piece suitable for home or shop use.",
			"Can be used for display or space separation.",
			"Designed to showcase items attractively.",
		},
	}
}

// Merge returns a copy of p with every key of override replacing p's entry.
func (p Pools) Merge(override Pools) Pools {
	out := make(Pools, len(p)+len(override))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

var closers = []string{
	"A tasteful, long-lasting choice for mindful living.",
	"Built to last and designed to delight.",
}

const detailsMax = 120

// PickPool chooses the sentence pool for a category by keyword.
func (p Pools) PickPool(category string) []string {
	c := strings.ToLower(category)
	if c == "" {
		return nil
	}
	switch {
	case strings.Contains(c, "sofa"):
		return p["sofa"]
	case strings.Contains(c, "wardrobe"):
		return p["wardrobe"]
	case strings.Contains(c, "cabinet"):
		return p["cabinet"]
	case strings.Contains(c, "kitchen"), strings.Contains(c, "teapot"):
		return p["kitchen"]
	case strings.Contains(c, "fan"), strings.Contains(c, "appliance"), strings.Contains(c, "electric"):
		return p["appliance"]
	case strings.Contains(c, "divider"), strings.Contains(c, "display"):
		return p["divider"]
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "" && strings.Contains(c, strings.ToLower(k)) {
			return p[k]
		}
	}
	return nil
}

// Describe composes a two or three sentence description for a draft product.
func Describe(in domain.ProductInput, pools Pools, rng Rand) string {
	cond := strings.TrimSpace(in.Condition)
	details := strings.TrimSpace(in.ConditionDetails)

	shuffled := append([]string(nil), pools.PickPool(in.Category)...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var parts []string

	prefix := ""
	if cond != "" {
		if cond == "New" || strings.Contains(strings.ToLower(cond), "new") {
			prefix = "Brand new, "
		} else {
			prefix = "In " + cond + " condition, "
		}
	}
	var first []string
	if m := inferMaterial(details, in.Subcategory, in.Name); m != "" {
		first = append(first, m)
	}
	if s := inferStyle(in.Category); s != "" {
		first = append(first, s)
	}
	if len(shuffled) > 0 {
		first = append(first, shuffled[0])
	}
	if s1 := strings.Join(strings.Fields(prefix+strings.Join(first, " ")), " "); s1 != "" {
		parts = append(parts, terminate(s1))
	}

	var second []string
	if dims := dimensions(in); dims != "" {
		second = append(second, "Dimensions: "+dims+".")
	}
	if details != "" {
		short := details
		if utf8.RuneCountInString(short) > detailsMax {
			short = strings.TrimSpace(string([]rune(short)[:detailsMax-3])) + "..."
		}
		second = append(second, terminate(capitalize(short)))
	}
	second = append(second, benefit(in.Category, shuffled))
	if s2 := strings.TrimSpace(strings.Join(second, " ")); s2 != "" {
		parts = append(parts, terminate(s2))
	}

	if rng.Float64() < 0.25 {
		parts = append(parts, closers[rng.IntN(len(closers))])
	}
	return strings.Join(parts, " ")
}

func inferMaterial(sources ...string) string {
	src := ""
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			src = strings.ToLower(s)
			break
		}
	}
	switch {
	case src == "":
		return ""
	case strings.Contains(src, "wood"):
		return "solid wood"
	case strings.Contains(src, "metal"):
		return "metal"
	case strings.Contains(src, "steel"):
		return "stainless steel"
	case strings.Contains(src, "rattan"):
		return "rattan"
	case strings.Contains(src, "fabric"), strings.Contains(src, "upholstered"):
		return "fabric-upholstered"
	case strings.Contains(src, "leather"):
		return "leather"
	}
	return ""
}

func inferStyle(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "sofa"), strings.Contains(c, "couch"):
		return "comfort-focused"
	case strings.Contains(c, "wardrobe"), strings.Contains(c, "cabinet"):
		return "classic"
	case strings.Contains(c, "kitchen"), strings.Contains(c, "appliance"):
		return "practical"
	}
	return ""
}

func benefit(category string, shuffled []string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "bike"), strings.Contains(c, "bicycle"), strings.Contains(c, "electric"):
		return "Perfect for commuting, offering efficient and eco-friendly transport."
	case strings.Contains(c, "sofa"), strings.Contains(c, "couch"):
		return "Great for relaxing and hosting guests with comfort."
	case strings.Contains(c, "wardrobe"), strings.Contains(c, "cabinet"):
		return "Helps keep your home organized while saving space."
	case strings.Contains(c, "kitchen"), strings.Contains(c, "appliance"):
		return "Built for practical daily use in busy kitchens."
	case strings.Contains(c, "table"), strings.Contains(c, "desk"):
		return "Versatile for work or dining, fitting many room layouts."
	case strings.Contains(c, "display"), strings.Contains(c, "divider"):
		return "Ideal for display or partitioning, combining function with style."
	}
	if len(shuffled) > 1 {
		return shuffled[1]
	}
	return "Ideal for practical everyday use."
}

func dimensions(in domain.ProductInput) string {
	var dims []string
	add := func(label string, v *float64) {
		if v != nil && *v > 0 {
			dims = append(dims, label+" "+strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	add("L", in.Length)
	add("W", in.Width)
	add("H", in.Height)
	return strings.Join(dims, " × ")
}

func terminate(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
