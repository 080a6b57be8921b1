package schema

import "strings"

// Catalog is a fixed-domain dimension: every value is known in advance so
// rollups can list cohorts that matched no records.
type Catalog struct {
	Name   string
	Field  string // source column
	Values []string

	// Fallback receives values outside the catalog. When empty those
	// records are left out of the dimension.
	Fallback string

	aliases map[string]string
}

// Resolve maps a raw field value onto a catalog value. Exact matches win,
// then the longest known prefix ("경기도 수원시" -> 경기).
func (c *Catalog) Resolve(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if canon, ok := c.aliases[v]; ok {
		return canon, true
	}
	if c.Contains(v) {
		return v, true
	}

	best, bestLen := "", 0
	consider := func(prefix, canon string) {
		if len(prefix) > bestLen && strings.HasPrefix(v, prefix) {
			best, bestLen = canon, len(prefix)
		}
	}
	for prefix, canon := range c.aliases {
		consider(prefix, canon)
	}
	for _, known := range c.Values {
		consider(known, known)
	}
	if bestLen > 0 {
		return best, true
	}

	if c.Fallback != "" {
		return c.Fallback, true
	}
	return "", false
}

// Contains reports whether v is one of the catalog values.
func (c *Catalog) Contains(v string) bool {
	for _, known := range c.Values {
		if known == v {
			return true
		}
	}
	return false
}

// Regions lists the 18 fixed residence regions.
var Regions = []string{
	"서울", "부산", "대구", "인천", "광주", "대전", "울산", "세종",
	"경기", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주", "기타",
}

// RegionCatalog groups residence values into the 18 regions. Long official
// names are folded onto the short forms; anything unrecognised lands in 기타.
var RegionCatalog = &Catalog{
	Name:     "region",
	Field:    "residence",
	Values:   Regions,
	Fallback: "기타",
	aliases: map[string]string{
		"서울특별시": "서울", "서울시": "서울",
		"부산광역시": "부산", "부산시": "부산",
		"대구광역시": "대구", "대구시": "대구",
		"인천광역시": "인천", "인천시": "인천",
		"광주광역시": "광주",
		"대전광역시": "대전", "대전시": "대전",
		"울산광역시": "울산", "울산시": "울산",
		"세종특별자치시": "세종", "세종시": "세종",
		"경기도": "경기",
		"강원도": "강원", "강원특별자치도": "강원",
		"충청북도": "충북",
		"충청남도": "충남",
		"전라북도": "전북", "전북특별자치도": "전북",
		"전라남도": "전남",
		"경상북도": "경북",
		"경상남도": "경남",
		"제주도": "제주", "제주특별자치도": "제주",
	},
}

// PVCatalog is the fixed pre/post pair. Records without a marker do not
// belong to any pv cohort.
var PVCatalog = &Catalog{
	Name:   "pv",
	Field:  "pv",
	Values: []string{PVPre, PVPost},
	aliases: map[string]string{
		"pre": PVPre, "PRE": PVPre, "Pre": PVPre,
		"post": PVPost, "POST": PVPost, "Post": PVPost,
	},
}

// SexCatalog lists the recorded sexes; blanks become 미기재.
var SexCatalog = &Catalog{
	Name:     "sex",
	Field:    "sex",
	Values:   []string{"남", "여", NotRecorded},
	Fallback: NotRecorded,
	aliases: map[string]string{
		"남성": "남", "남자": "남", "M": "남", "m": "남",
		"여성": "여", "여자": "여", "F": "여", "f": "여",
	},
}

var catalogs = map[string]*Catalog{
	RegionCatalog.Name: RegionCatalog,
	PVCatalog.Name:     PVCatalog,
	SexCatalog.Name:    SexCatalog,
}

// Dimension is a grouping key usable in cohort rollups.
type Dimension struct {
	Name    string
	Field   string
	Catalog *Catalog // nil for free-valued dimensions
}

// Dimension resolves a grouping name for this family. Catalog dimensions
// (region, pv, sex) are fixed-domain; any other allowed text field groups by
// its observed values.
func (s *FamilySchema) Dimension(name string) (Dimension, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if c, ok := catalogs[n]; ok {
		if !s.Allowed(c.Field) {
			return Dimension{}, false
		}
		return Dimension{Name: c.Name, Field: c.Field, Catalog: c}, true
	}
	st, ok := s.strategies[n]
	if !ok || st.Kind() != KindText {
		return Dimension{}, false
	}
	return Dimension{Name: n, Field: n}, true
}
