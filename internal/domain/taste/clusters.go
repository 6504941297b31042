package taste

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidClusters is returned when a cluster table fails validation.
var ErrInvalidClusters = errors.New("invalid cluster table")

// Cluster is a curated aesthetic, recognised by lowercase keyword substrings.
type Cluster struct {
	Name     string   `koanf:"name"`
	Keywords []string `koanf:"keywords"`
}

// ClusterSet is the versioned keyword table, one cluster list per media
// category. Cluster order decides the order of classifier results.
type ClusterSet struct {
	Version int       `koanf:"version"`
	Movies  []Cluster `koanf:"movies"`
	Music   []Cluster `koanf:"music"`
	Books   []Cluster `koanf:"books"`
}

// DefaultClusters is the built-in table used when no override file is set.
var DefaultClusters = ClusterSet{
	Version: 1,
	Movies: []Cluster{
		{Name: "auteur-driven", Keywords: []string{"nolan", "villeneuve", "kubrick", "tarantino", "wes anderson", "fincher", "lynch", "scorsese", "wong kar-wai"}},
		{Name: "cerebral sci-fi", Keywords: []string{"blade runner", "arrival", "interstellar", "inception", "ex machina", "dune", "matrix", "solaris", "2001"}},
		{Name: "feel-good comedy", Keywords: []string{"comedy", "superbad", "paddington", "groundhog", "grand budapest", "bridesmaids", "hangover"}},
		{Name: "slow-burn horror", Keywords: []string{"horror", "hereditary", "midsommar", "the witch", "get out", "shining", "babadook"}},
		{Name: "animated worlds", Keywords: []string{"ghibli", "spirited away", "totoro", "pixar", "spider-verse", "animation", "coco"}},
	},
	Music: []Cluster{
		{Name: "atmospheric electronic", Keywords: []string{"radiohead", "bon iver", "aphex", "boards of canada", "burial", "bonobo", "ambient", "electronic", "massive attack", "jon hopkins"}},
		{Name: "indie rock", Keywords: []string{"arctic monkeys", "the strokes", "vampire weekend", "pixies", "interpol", "indie", "the national", "tame impala"}},
		{Name: "hip-hop storytelling", Keywords: []string{"kendrick", "outkast", "mf doom", "tribe called quest", "hip-hop", "hip hop", "wu-tang"}},
		{Name: "jazz and soul", Keywords: []string{"coltrane", "miles davis", "nina simone", "jazz", "soul", "d'angelo", "erykah", "motown"}},
		{Name: "singer-songwriter", Keywords: []string{"joni mitchell", "phoebe bridgers", "elliott smith", "nick drake", "folk", "acoustic", "sufjan"}},
	},
	Books: []Cluster{
		{Name: "literary fiction", Keywords: []string{"sally rooney", "ishiguro", "franzen", "zadie smith", "toni morrison", "normal people", "remains of the day"}},
		{Name: "speculative fiction", Keywords: []string{"le guin", "asimov", "herbert", "dune", "three-body", "foundation", "gibson", "octavia butler", "sci-fi", "fantasy"}},
		{Name: "timeless classics", Keywords: []string{"austen", "tolstoy", "dostoevsky", "bronte", "dickens", "gatsby", "pride and prejudice", "anna karenina"}},
		{Name: "curious nonfiction", Keywords: []string{"sapiens", "harari", "gladwell", "atomic habits", "memoir", "biography", "history", "thinking, fast and slow"}},
		{Name: "magical realism", Keywords: []string{"marquez", "murakami", "borges", "allende", "solitude", "kafka on the shore", "piranesi"}},
	},
}

// Normalize lowercases and trims keywords and drops blank ones.
func (cs ClusterSet) Normalize() ClusterSet {
	norm := func(in []Cluster) []Cluster {
		out := make([]Cluster, 0, len(in))
		for _, c := range in {
			kws := make([]string, 0, len(c.Keywords))
			for _, kw := range c.Keywords {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw != "" {
					kws = append(kws, kw)
				}
			}
			out = append(out, Cluster{Name: strings.TrimSpace(c.Name), Keywords: kws})
		}
		return out
	}
	return ClusterSet{
		Version: cs.Version,
		Movies:  norm(cs.Movies),
		Music:   norm(cs.Music),
		Books:   norm(cs.Books),
	}
}

// Validate checks the version and that every cluster has a unique name and
// at least one keyword.
func (cs ClusterSet) Validate() error {
	if cs.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1, got %d", ErrInvalidClusters, cs.Version)
	}
	check := func(kind string, clusters []Cluster) error {
		names := make(map[string]struct{}, len(clusters))
		for i, c := range clusters {
			if c.Name == "" {
				return fmt.Errorf("%w: %s cluster %d has no name", ErrInvalidClusters, kind, i)
			}
			if _, dup := names[c.Name]; dup {
				return fmt.Errorf("%w: duplicate %s cluster %q", ErrInvalidClusters, kind, c.Name)
			}
			names[c.Name] = struct{}{}
			if len(c.Keywords) == 0 {
				return fmt.Errorf("%w: %s cluster %q has no keywords", ErrInvalidClusters, kind, c.Name)
			}
		}
		return nil
	}
	if err := check("movies", cs.Movies); err != nil {
		return err
	}
	if err := check("music", cs.Music); err != nil {
		return err
	}
	return check("books", cs.Books)
}

// LoadClusters reads a YAML cluster table from path. Categories missing from
// the file keep the built-in clusters.
func LoadClusters(path string) (ClusterSet, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return ClusterSet{}, fmt.Errorf("load clusters %s: %w", path, err)
	}

	var cs ClusterSet
	if err := k.UnmarshalWithConf("", &cs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return ClusterSet{}, fmt.Errorf("decode clusters %s: %w", path, err)
	}
	if !k.Exists("movies") {
		cs.Movies = DefaultClusters.Movies
	}
	if !k.Exists("music") {
		cs.Music = DefaultClusters.Music
	}
	if !k.Exists("books") {
		cs.Books = DefaultClusters.Books
	}
	cs = cs.Normalize()
	if err := cs.Validate(); err != nil {
		return ClusterSet{}, err
	}
	return cs, nil
}

// Classify returns the names of clusters present in both a and b, in cluster
// order. A cluster is present in a list when some item contains one of its
// keywords, ignoring case.
func Classify(a, b []string, clusters []Cluster) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	lowerA, lowerB := lowerAll(a), lowerAll(b)
	var out []string
	for _, c := range clusters {
		if present(lowerA, c.Keywords) && present(lowerB, c.Keywords) {
			out = append(out, c.Name)
		}
	}
	return out
}

func present(items, keywords []string) bool {
	for _, item := range items {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(item, kw) {
				return true
			}
		}
	}
	return false
}
