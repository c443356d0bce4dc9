package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okalli/garb/internal/app"
	"github.com/okalli/garb/internal/domain/model"
	"github.com/okalli/garb/internal/domain/synthesis"
	"github.com/okalli/garb/internal/domain/taxonomy"
	"github.com/okalli/garb/internal/domain/types"
	"github.com/okalli/garb/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// waitForItems polls until the owner's stored item count reaches want or
// the deadline passes.
func waitForItems(ctx context.Context, svc *service.Service, owner string, want int, deadline time.Duration) bool {
	stop := time.Now().Add(deadline)
	for time.Now().Before(stop) {
		items, err := svc.ListItems(ctx, owner, "", 0)
		if err == nil && len(items) >= want {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// summerQuery is a warm clear day with no events, which dresses casual.
func summerQuery(owner string) types.OutfitQuery {
	return types.OutfitQuery{
		OwnerID:  owner,
		Date:     time.Date(2026, time.July, 10, 8, 0, 0, 0, time.UTC),
		Location: "Lisbon",
		Mood:     "neutral",
		Forecast: &model.WeatherForecast{
			TempMinC:      22,
			TempMaxC:      28,
			Precipitation: 0.1,
			WindKPH:       8,
			Condition:     "clear",
		},
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := newService(t,
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the service should be running", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When ingesting a wardrobe end-to-end", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			acks, err := svc.SubmitItems(ctx, "owner-1", []types.Submission{
				{SubmissionID: "sub-top", Raw: rawItem("top", "tee", "navy")},
				{SubmissionID: "sub-bottom", Raw: rawItem("bottom", "jeans", "blue")},
				{SubmissionID: "sub-shoe", Raw: rawItem("footwear", "sneakers", "white")},
			})
			So(err, ShouldBeNil)
			So(acks, ShouldHaveLength, 3)
			for _, ack := range acks {
				So(ack.Status, ShouldEqual, types.StatusQueued)
			}

			So(waitForItems(ctx, svc, "owner-1", 3, 5*time.Second), ShouldBeTrue)

			Convey("Then the items become queryable", func() {
				items, err := svc.ListItems(ctx, "owner-1", "", 0)
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 3)

				tops, err := svc.ListItems(ctx, "owner-1", taxonomy.CategoryTop, 0)
				So(err, ShouldBeNil)
				So(tops, ShouldHaveLength, 1)
				So(tops[0].ID, ShouldEqual, "sub-top")

				item, err := svc.GetItem(ctx, "owner-1", "sub-top")
				So(err, ShouldBeNil)
				So(item.Category, ShouldEqual, "top")
				So(item.Subcategory, ShouldEqual, "tee")
				So(item.Colors, ShouldContain, "navy")
			})

			Convey("And repeated submissions are acknowledged as duplicates", func() {
				again, err := svc.SubmitItems(ctx, "owner-1", []types.Submission{
					{SubmissionID: "sub-top", Raw: rawItem("top", "tee", "navy")},
				})
				So(err, ShouldBeNil)
				So(again[0].Status, ShouldEqual, types.StatusDuplicate)

				items, err := svc.ListItems(ctx, "owner-1", "", 0)
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 3)
			})

			Convey("And similarity search finds the closest item", func() {
				matches, err := svc.Search(ctx, "owner-1", "navy tee", 2)
				So(err, ShouldBeNil)
				So(len(matches), ShouldBeGreaterThan, 0)
				So(matches[0].Item.ID, ShouldEqual, "sub-top")
				So(matches[0].Score, ShouldBeGreaterThan, 0.5)
			})

			Convey("And recommendations assemble outfits from the wardrobe", func() {
				rec, err := svc.Recommend(ctx, summerQuery("owner-1"))
				So(err, ShouldBeNil)
				So(len(rec.Outfits), ShouldBeGreaterThan, 0)
				So(rec.Outfits[0].Rank, ShouldEqual, 1)
				So(rec.Outfits[0].Items, ShouldHaveLength, 3)
				So(rec.Context.Season, ShouldEqual, "summer")
				So(rec.Context.Occasions, ShouldContain, "casual")
				So(rec.Context.NeedsOuterwear, ShouldBeFalse)
			})

			Convey("And deleting an item removes it everywhere", func() {
				err := svc.DeleteItem(ctx, "owner-1", "sub-shoe")
				So(err, ShouldBeNil)

				items, err := svc.ListItems(ctx, "owner-1", "", 0)
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 2)

				_, err = svc.GetItem(ctx, "owner-1", "sub-shoe")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When previewing the day's context", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			day, err := svc.PreviewContext(ctx, types.OutfitQuery{
				OwnerID:  "owner-1",
				Date:     time.Date(2026, time.November, 3, 8, 0, 0, 0, time.UTC),
				Location: "Copenhagen",
				Mood:     "neutral",
				Events: []model.CalendarEvent{
					{Title: "Board meeting", Occasion: taxonomy.OccasionBusiness},
				},
				Forecast: &model.WeatherForecast{
					TempMinC:      4,
					TempMaxC:      9,
					Precipitation: 0.8,
					WindKPH:       40,
					Condition:     "rain",
				},
			})

			Convey("Then the directive reflects schedule and weather", func() {
				So(err, ShouldBeNil)
				So(day.Season, ShouldEqual, "autumn")
				So(day.Occasions, ShouldContain, "business")
				So(day.FormalityMin, ShouldEqual, 2)
				So(day.NeedsOuterwear, ShouldBeTrue)
				So(day.NeedsRainFootwear, ShouldBeTrue)
				So(day.Windy, ShouldBeTrue)
			})
		})

		Convey("When handling service lifecycle", func() {
			Convey("And starting and stopping multiple times", func() {
				// Start service
				err := svc.Start(ctx)
				So(err, ShouldBeNil)

				// Stop service
				svc.Stop()

				// Check it's stopped
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)

				// Start again
				err = svc.Start(ctx)
				So(err, ShouldBeNil)

				// Check it's started again
				stats = svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := newService(t,
			service.WithWorkerCount(4),
			service.WithQueueSize(2000),
			service.WithDedupeSize(1000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When multiple goroutines submit items concurrently", func() {
			numGoroutines := 8
			itemsPerGoroutine := 25

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					owner := fmt.Sprintf("owner-%d", goroutineID)
					for j := 0; j < itemsPerGoroutine; j++ {
						_, _ = svc.SubmitItems(ctx, owner, []types.Submission{
							{
								SubmissionID: fmt.Sprintf("c-%d-%d", goroutineID, j),
								Raw:          rawItem("top", "tee", "navy"),
							},
						})
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every owner's items should be ingested", func() {
				for i := 0; i < numGoroutines; i++ {
					owner := fmt.Sprintf("owner-%d", i)
					So(waitForItems(ctx, svc, owner, itemsPerGoroutine, 10*time.Second), ShouldBeTrue)
				}
			})
		})

		Convey("When multiple goroutines query concurrently", func() {
			_, err := svc.SubmitItems(ctx, "reader-owner", []types.Submission{
				{SubmissionID: "r-top", Raw: rawItem("top", "tee", "navy")},
				{SubmissionID: "r-bottom", Raw: rawItem("bottom", "jeans", "blue")},
				{SubmissionID: "r-shoe", Raw: rawItem("footwear", "sneakers", "white")},
			})
			So(err, ShouldBeNil)
			So(waitForItems(ctx, svc, "reader-owner", 3, 5*time.Second), ShouldBeTrue)

			numGoroutines := 10
			queryErrors := make(chan error, numGoroutines*20)

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						if _, err := svc.ListItems(ctx, "reader-owner", "", 0); err != nil {
							queryErrors <- err
						}
						if _, err := svc.Search(ctx, "reader-owner", "navy tee", 3); err != nil {
							queryErrors <- err
						}
						if _, err := svc.Recommend(ctx, summerQuery("reader-owner")); err != nil {
							queryErrors <- err
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then all queries should succeed", func() {
				select {
				case err := <-queryErrors:
					So(err, ShouldBeNil)
				default:
					// No errors, test passed
					So(true, ShouldBeTrue)
				}
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with error conditions", t, func() {
		svc := newService(t,
			service.WithWorkerCount(1),
			service.WithQueueSize(10), // Small queue to test backpressure
			service.WithDedupeSize(500),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When submitting far beyond queue capacity", func() {
			subs := make([]types.Submission, 200)
			for i := range subs {
				subs[i] = types.Submission{
					SubmissionID: fmt.Sprintf("bp-%d", i),
					Raw:          rawItem("top", "tee", "navy"),
				}
			}

			acks, err := svc.SubmitItems(ctx, "owner-bp", subs)

			Convey("Then backpressure should reject part of the batch", func() {
				So(errors.Is(err, service.ErrQueueFull), ShouldBeTrue)
				So(len(acks), ShouldBeGreaterThan, 0)
				So(len(acks), ShouldBeLessThan, 200)
			})
		})

		Convey("When submitting an item with an unsupported category", func() {
			acks, err := svc.SubmitItems(ctx, "owner-bad", []types.Submission{
				{SubmissionID: "bad-1", Raw: rawItem("spacesuit", "", "silver")},
			})
			So(err, ShouldBeNil)
			So(acks[0].Status, ShouldEqual, types.StatusQueued)

			// Normalization happens in the workers; rejected items never land.
			time.Sleep(500 * time.Millisecond)

			Convey("Then the item should be rejected during ingestion", func() {
				items, err := svc.ListItems(ctx, "owner-bad", "", 0)
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 0)
			})
		})

		Convey("When querying a non-existent item", func() {
			_, err := svc.GetItem(ctx, "owner-1", "no-such-item")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When deleting a non-existent item", func() {
			err := svc.DeleteItem(ctx, "owner-1", "no-such-item")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When recommending without a weather forecast", func() {
			q := summerQuery("owner-1")
			q.Forecast = nil
			_, err := svc.Recommend(ctx, q)

			Convey("Then it should return an invalid context error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, synthesis.ErrInvalidContext), ShouldBeTrue)
			})
		})
	})
}

func TestServicePerformance(t *testing.T) {
	Convey("Given a service for performance testing", t, func() {
		svc := newService(t,
			service.WithWorkerCount(8),
			service.WithQueueSize(10000),
			service.WithDedupeSize(5000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When ingesting a large wardrobe", func() {
			categories := []struct {
				category    string
				subcategory string
			}{
				{"top", "tee"},
				{"bottom", "jeans"},
				{"footwear", "sneakers"},
			}
			colors := []string{"navy", "white", "black", "olive", "red"}

			numItems := 300
			subs := make([]types.Submission, numItems)
			for i := 0; i < numItems; i++ {
				c := categories[i%len(categories)]
				subs[i] = types.Submission{
					SubmissionID: fmt.Sprintf("perf-%d", i),
					Raw:          rawItem(c.category, c.subcategory, colors[i%len(colors)]),
				}
			}

			start := time.Now()
			acks, err := svc.SubmitItems(ctx, "owner-perf", subs)
			enqueueTime := time.Since(start)

			So(err, ShouldBeNil)
			So(acks, ShouldHaveLength, numItems)

			Convey("Then enqueueing should be fast", func() {
				So(enqueueTime, ShouldBeLessThan, 5*time.Second)
			})

			Convey("And ingestion should drain the whole batch", func() {
				So(waitForItems(ctx, svc, "owner-perf", numItems, 30*time.Second), ShouldBeTrue)

				Convey("And recommendations over the large wardrobe should be fast", func() {
					start := time.Now()
					rec, err := svc.Recommend(ctx, summerQuery("owner-perf"))
					queryTime := time.Since(start)

					So(err, ShouldBeNil)
					So(len(rec.Outfits), ShouldBeGreaterThan, 0)
					So(queryTime, ShouldBeLessThan, 2*time.Second)
				})

				Convey("And similarity search should be fast", func() {
					start := time.Now()
					matches, err := svc.Search(ctx, "owner-perf", "navy tee", 5)
					queryTime := time.Since(start)

					So(err, ShouldBeNil)
					So(len(matches), ShouldBeGreaterThan, 0)
					So(queryTime, ShouldBeLessThan, 500*time.Millisecond)
				})
			})
		})
	})
}
