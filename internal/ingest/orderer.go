package ingest

import (
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NamedBlob is one uploaded file: the name the operator's browser sent and
// the raw bytes.
type NamedBlob struct {
	Name string
	Data []byte
}

// Order sorts an upload batch into page order. Operators name scans
// "page1.jpg" ... "page10.jpg"; plain lexicographic order would put page10
// before page2, so the first run of decimal digits anywhere in the name is
// compared numerically. Names without digits rank as key 0 and ties fall
// back to collated name comparison. The sort is stable, so full ties keep
// their input order.
func Order(files []NamedBlob) []NamedBlob {
	c := collate.New(language.Und)

	out := make([]NamedBlob, len(files))
	copy(out, files)

	sort.SliceStable(out, func(i, j int) bool {
		return compareNames(c, out[i].Name, out[j].Name) < 0
	})
	return out
}

func compareNames(c *collate.Collator, a, b string) int {
	ka := numericKey(a)
	kb := numericKey(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	return c.CompareString(a, b)
}

// numericKey extracts the first maximal run of decimal digits in name and
// returns its integer value. A name without digits gets key 0, the same
// rank as an explicit "0" run. Runs too long for int64 saturate instead of
// wrapping.
func numericKey(name string) int64 {
	start := -1
	end := -1
	for i, r := range name {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0
	}

	run := name[start:end]
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	if len(run) > 18 {
		return math.MaxInt64
	}
	v, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return math.MaxInt64
	}
	return v
}
