package taste_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/okian/vibecheck/internal/domain/profile"
	"github.com/okian/vibecheck/internal/domain/taste"
	. "github.com/smartystreets/goconvey/convey"
)

func withMovies(movies ...string) profile.Profile {
	return profile.Profile{Taste: profile.Taste{Movies: movies}}
}

func withTraits(o, c, e, a, n float64) profile.Personality {
	return profile.Personality{
		Openness:          profile.TraitPtr(o),
		Conscientiousness: profile.TraitPtr(c),
		Extraversion:      profile.TraitPtr(e),
		Agreeableness:     profile.TraitPtr(a),
		Neuroticism:       profile.TraitPtr(n),
	}
}

func seeded() taste.Option {
	return taste.WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestMediaAnalyzers(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := taste.NewAnalyzer(seeded())

		Convey("When movie titles overlap by substring", func() {
			n := a.Movies(withMovies("Blade Runner 2049"), withMovies("blade runner 2049 review"))

			Convey("Then a surface film finding names the shared title", func() {
				So(n, ShouldNotBeNil)
				So(n.Category, ShouldEqual, taste.FilmAppreciation)
				So(n.Level, ShouldEqual, taste.Surface)
				So(n.SharedItems, ShouldResemble, []string{"Blade Runner 2049"})
				So(n.Description, ShouldContainSubstring, "Blade Runner 2049")
				So(n.Examples, ShouldHaveLength, 1)
			})
		})

		Convey("When two titles overlap", func() {
			n := a.Movies(withMovies("Dune", "Arrival", "Heat"), withMovies("dune", "arrival"))

			Convey("Then the finding is deep", func() {
				So(n.Level, ShouldEqual, taste.Deep)
				So(n.SharedItems, ShouldResemble, []string{"Dune", "Arrival"})
				So(n.Description, ShouldContainSubstring, "Dune")
				So(n.Description, ShouldContainSubstring, "Arrival")
			})
		})

		Convey("When three or more titles overlap", func() {
			n := a.Movies(withMovies("Dune", "Arrival", "Heat", "Alien"), withMovies("heat", "dune", "alien", "arrival"))

			Convey("Then the finding is profound and counts the rest", func() {
				So(n.Level, ShouldEqual, taste.Profound)
				So(n.SharedItems, ShouldHaveLength, 4)
				So(n.Description, ShouldContainSubstring, "2 more")
			})
		})

		Convey("When one movie list is empty", func() {
			n := a.Movies(withMovies(), withMovies("Dune"))

			Convey("Then there is no finding", func() {
				So(n, ShouldBeNil)
			})
		})

		Convey("When titles differ but share a style cluster", func() {
			n := a.Movies(withMovies("Arrival"), withMovies("Interstellar"))

			Convey("Then a deep style finding is produced", func() {
				So(n, ShouldNotBeNil)
				So(n.Category, ShouldEqual, taste.CinematicSensibilities)
				So(n.Level, ShouldEqual, taste.Deep)
				So(n.SharedItems, ShouldResemble, []string{"cerebral sci-fi"})
			})
		})

		Convey("When literal overlap exists alongside shared clusters", func() {
			n := a.Movies(withMovies("Arrival", "Inception"), withMovies("arrival"))

			Convey("Then the literal finding wins", func() {
				So(n.Category, ShouldEqual, taste.FilmAppreciation)
				So(n.SharedItems, ShouldResemble, []string{"Arrival"})
			})
		})

		Convey("When music and books are compared", func() {
			pa := profile.Profile{Taste: profile.Taste{Music: []string{"Radiohead"}, Books: []string{"Dune"}}}
			pb := profile.Profile{Taste: profile.Taste{Music: []string{"radiohead - ok computer"}, Books: []string{"Foundation"}}}

			Convey("Then each uses its own label pair", func() {
				m := a.Music(pa, pb)
				So(m.Category, ShouldEqual, taste.MusicalConnection)
				So(m.Level, ShouldEqual, taste.Surface)

				b := a.Books(pa, pb)
				So(b.Category, ShouldEqual, taste.LiteraryResonance)
				So(b.SharedItems, ShouldResemble, []string{"speculative fiction"})
			})
		})

		Convey("When a custom cluster table is supplied", func() {
			custom := taste.NewAnalyzer(seeded(), taste.WithClusters(taste.ClusterSet{
				Version: 2,
				Movies:  []taste.Cluster{{Name: "nordic noir", Keywords: []string{"THE BRIDGE", "killing"}}},
			}))
			n := custom.Movies(withMovies("The Bridge S1"), withMovies("The Killing"))

			Convey("Then the custom clusters are used", func() {
				So(n, ShouldNotBeNil)
				So(n.SharedItems, ShouldResemble, []string{"nordic noir"})
				So(custom.Clusters().Version, ShouldEqual, 2)
			})
		})
	})
}

func TestInterestsAnalyzer(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := taste.NewAnalyzer(seeded())
		interests := func(tags ...string) profile.Profile { return profile.Profile{Interests: tags} }

		Convey("Then tiers follow the shared count", func() {
			So(a.Interests(interests("Music", "Coffee"), interests("Coffee", "Hiking")).Level, ShouldEqual, taste.Surface)
			So(a.Interests(interests("Yoga", "Coffee"), interests("coffee", "yoga")).Level, ShouldEqual, taste.Deep)

			n := a.Interests(interests("A", "B", "C", "D"), interests("a", "b", "c", "d"))
			So(n.Level, ShouldEqual, taste.Profound)
			So(n.Category, ShouldEqual, taste.LifestyleHarmony)
			So(n.Description, ShouldContainSubstring, "4 ways")
		})

		Convey("Then substring-only tags do not match", func() {
			So(a.Interests(interests("Coffee"), interests("Coffee tasting")), ShouldBeNil)
		})
	})
}

func TestPersonalityAnalyzer(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := taste.NewAnalyzer(seeded())

		Convey("When two of three traits are within tolerance", func() {
			pa := profile.Profile{Personality: withTraits(50, 50, 50, 50, 50)}
			pb := profile.Profile{Personality: withTraits(60, 50, 80, 65, 50)}
			n := a.Personality(pa, pb)

			Convey("Then a deep finding lists the compatible traits with one example each", func() {
				So(n, ShouldNotBeNil)
				So(n.Category, ShouldEqual, taste.PersonalitySynergy)
				So(n.Level, ShouldEqual, taste.Deep)
				So(n.SharedItems, ShouldResemble, []string{"openness", "agreeableness"})
				So(n.Examples, ShouldHaveLength, 2)
			})
		})

		Convey("When all three traits are within tolerance", func() {
			pa := profile.Profile{Personality: withTraits(70, 10, 40, 80, 90)}
			pb := profile.Profile{Personality: withTraits(90, 90, 65, 60, 0)}

			Convey("Then the finding is profound", func() {
				n := a.Personality(pa, pb)
				So(n.Level, ShouldEqual, taste.Profound)
				So(n.Examples, ShouldHaveLength, 3)
			})
		})

		Convey("When extraversion sits exactly on its tolerance", func() {
			pa := profile.Profile{Personality: withTraits(0, 0, 0, 0, 0)}
			pb := profile.Profile{Personality: withTraits(100, 0, 25, 100, 0)}

			Convey("Then it still counts as compatible", func() {
				n := a.Personality(pa, pb)
				So(n.SharedItems, ShouldResemble, []string{"extraversion"})
			})
		})

		Convey("When no trait is compatible", func() {
			pa := profile.Profile{Personality: withTraits(0, 0, 0, 0, 0)}
			pb := profile.Profile{Personality: withTraits(100, 100, 100, 100, 100)}
			So(a.Personality(pa, pb), ShouldBeNil)
		})

		Convey("When one side has traits missing", func() {
			pa := profile.Profile{Personality: profile.Personality{Openness: profile.TraitPtr(55)}}
			pb := profile.Profile{Personality: withTraits(40, 0, 70, 45, 0)}

			Convey("Then missing traits read as neutral", func() {
				n := a.Personality(pa, pb)
				So(n.SharedItems, ShouldResemble, []string{"openness", "extraversion", "agreeableness"})
			})
		})

		Convey("When a side has no personality data", func() {
			pb := profile.Profile{Personality: withTraits(50, 50, 50, 50, 50)}
			So(a.Personality(profile.Profile{}, pb), ShouldBeNil)
		})
	})
}

func richPair() (profile.Profile, profile.Profile) {
	pa := profile.Profile{
		Interests:   []string{"Music", "Coffee", "Hiking"},
		Taste:       profile.Taste{Movies: []string{"Arrival", "Dune"}, Music: []string{"Radiohead"}, Books: []string{"Piranesi"}},
		Personality: withTraits(60, 40, 30, 70, 20),
	}
	pb := profile.Profile{
		Interests:   []string{"coffee", "hiking"},
		Taste:       profile.Taste{Movies: []string{"dune part two", "arrival"}, Music: []string{"Bon Iver"}, Books: []string{"Kafka on the Shore"}},
		Personality: withTraits(70, 90, 50, 60, 80),
	}
	return pa, pb
}

func TestAggregate(t *testing.T) {
	Convey("Given a pair with evidence in every category", t, func() {
		pa, pb := richPair()
		a := taste.NewAnalyzer(seeded())
		got := a.Aggregate(pa, pb)

		Convey("Then findings come back in presentation order", func() {
			cats := make([]string, 0, len(got))
			for _, n := range got {
				cats = append(cats, n.Category)
			}
			So(cats, ShouldResemble, []string{
				taste.FilmAppreciation,
				taste.MusicalWavelength,
				taste.LiteraryResonance,
				taste.LifestyleHarmony,
				taste.PersonalitySynergy,
			})
		})

		Convey("Then no category appears twice", func() {
			seen := map[string]bool{}
			for _, n := range got {
				So(seen[n.Category], ShouldBeFalse)
				seen[n.Category] = true
			}
		})
	})

	Convey("Given two empty profiles", t, func() {
		got := taste.NewAnalyzer().Aggregate(profile.Profile{}, profile.Profile{})

		Convey("Then there are no findings", func() {
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given the same pair evaluated with different random sources", t, func() {
		pa, pb := richPair()
		first := taste.NewAnalyzer(taste.WithRand(rand.New(rand.NewPCG(1, 2)))).Aggregate(pa, pb)
		second := taste.NewAnalyzer(taste.WithRand(rand.New(rand.NewPCG(99, 3)))).Aggregate(pa, pb)

		Convey("Then structural fields are identical", func() {
			So(len(first), ShouldEqual, len(second))
			for i := range first {
				So(first[i].Category, ShouldEqual, second[i].Category)
				So(first[i].Level, ShouldEqual, second[i].Level)
				So(first[i].SharedItems, ShouldResemble, second[i].SharedItems)
				So(first[i].Description, ShouldEqual, second[i].Description)
			}
		})

		Convey("Then examples still quote the shared items", func() {
			for _, n := range second {
				if n.Category == taste.FilmAppreciation {
					So(strings.Contains(n.Examples[0], "Dune"), ShouldBeTrue)
				}
			}
		})
	})

	Convey("Given the same seed twice", t, func() {
		pa, pb := richPair()
		first := taste.NewAnalyzer(seeded()).Aggregate(pa, pb)
		second := taste.NewAnalyzer(seeded()).Aggregate(pa, pb)

		Convey("Then the output is identical including examples", func() {
			So(first, ShouldResemble, second)
		})
	})
}
