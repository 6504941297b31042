package insights_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/vibecheck/internal/adapters/insights"
	"github.com/okian/vibecheck/internal/domain/dateideas"
	"github.com/okian/vibecheck/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecommend(t *testing.T) {
	Convey("Given an insights server", t, func() {
		var (
			gotPath, gotKey string
			gotBody         map[string]any
		)
		status := http.StatusOK
		payload := `{"status":"ok","results":[
			{"item":{"id":"r1","name":"Blue Note","category":"events","metadata":{"price_range":"$$"}},"score":0.91},
			{"item":{"id":"","name":"Park Walk"},"score":0.4}
		]}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-API-Key")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(payload))
		}))
		Reset(srv.Close)

		c := insights.NewClient(srv.URL+"/", "secret")
		req := dateideas.Request{
			Interests:   []string{"Music"},
			Taste:       profile.Taste{Movies: []string{"Arrival"}},
			Personality: &profile.Personality{Openness: profile.TraitPtr(80)},
		}

		Convey("When recommending", func() {
			recs, err := c.Recommend(context.Background(), req)

			Convey("Then the request carries preferences and defaults", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/v3/insights/user_to_item_affinity")
				So(gotKey, ShouldEqual, "secret")
				So(gotBody["user_preferences"], ShouldResemble, []any{"Music", "Arrival"})
				So(gotBody["item_categories"], ShouldResemble, []any{"restaurants", "activities", "entertainment", "events"})
				So(gotBody["location"], ShouldEqual, "New York, NY")
				So(gotBody["limit"], ShouldEqual, 10.0)
				traits, ok := gotBody["personality_traits"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(traits["openness"], ShouldEqual, 80.0)
				So(traits, ShouldNotContainKey, "neuroticism")
			})

			Convey("Then results are mapped", func() {
				So(recs, ShouldHaveLength, 2)
				So(recs[0], ShouldResemble, dateideas.Recommendation{ItemID: "r1", Name: "Blue Note", Category: "events", PriceRange: "$$", Score: 0.91})
				So(recs[1].PriceRange, ShouldBeEmpty)
			})
		})

		Convey("When no personality is given", func() {
			req.Personality = nil
			_, err := c.Recommend(context.Background(), req)
			So(err, ShouldBeNil)
			So(gotBody, ShouldNotContainKey, "personality_traits")
		})

		Convey("When the server fails", func() {
			status = http.StatusBadGateway
			payload = `upstream down`
			_, err := c.Recommend(context.Background(), req)
			So(errors.Is(err, insights.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "upstream down")
		})

		Convey("When the body is not JSON", func() {
			payload = `<html>`
			_, err := c.Recommend(context.Background(), req)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a server slower than the timeout", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		Reset(srv.Close)

		c := insights.NewClient(srv.URL, "k", insights.WithTimeout(20*time.Millisecond))
		_, err := c.Recommend(context.Background(), dateideas.Request{})
		So(err, ShouldNotBeNil)
	})
}
