package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/okalli/garb/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a deduper with a custom bound", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording submissions", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the submission is new", func() {
				seen := d.SeenAndRecord(context.Background(), "submission-1")

				Convey("Then it should return false and record the ID", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the submission was already seen", func() {
				d.SeenAndRecord(context.Background(), "submission-1")

				seen := d.SeenAndRecord(context.Background(), "submission-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple submissions are recorded", func() {
				ids := []string{"submission-1", "submission-2", "submission-3", "submission-4", "submission-5"}

				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all of them should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(ids)))

					for _, id := range ids {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording submissions", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the submission exists", func() {
				d.SeenAndRecord(context.Background(), "submission-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "submission-1")

				Convey("Then it should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					seen := d.SeenAndRecord(context.Background(), "submission-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the submission doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And multiple submissions are unrecorded", func() {
				ids := []string{"submission-1", "submission-2", "submission-3"}

				for _, id := range ids {
					d.SeenAndRecord(context.Background(), id)
				}
				So(d.Size(), ShouldEqual, int64(len(ids)))

				for _, id := range ids {
					d.Unrecord(context.Background(), id)
				}

				Convey("Then all of them should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					for _, id := range ids {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeFalse)
					}
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				ids := []string{"submission-1", "submission-2", "submission-3"}
				for _, id := range ids {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				seen := d.SeenAndRecord(context.Background(), "submission-4")

				Convey("Then it should evict the oldest and add the new one", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// submission-1 was the oldest, so it was evicted and
					// recording it again counts as new.
					originalSize := d.Size()
					seen1 := d.SeenAndRecord(context.Background(), "submission-1")
					So(seen1, ShouldBeFalse)
					So(d.Size(), ShouldEqual, originalSize)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many submissions are recorded", func() {
				const numSubmissions = 1000
				for i := 0; i < numSubmissions; i++ {
					id := fmt.Sprintf("submission-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all of them should be recorded without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numSubmissions))

					for i := 0; i < numSubmissions; i++ {
						id := fmt.Sprintf("submission-%d", i)
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const submissionsPerGoroutine = 100

		Convey("When multiple goroutines record submissions concurrently", func() {
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < submissionsPerGoroutine; j++ {
						id := fmt.Sprintf("submission-%d-%d", goroutineID, j)
						d.SeenAndRecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then every submission should be recorded exactly once", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*submissionsPerGoroutine))
			})
		})

		Convey("When multiple goroutines unrecord submissions concurrently", func() {
			const numSubmissions = 500
			for i := 0; i < numSubmissions; i++ {
				id := fmt.Sprintf("submission-%d", i)
				d.SeenAndRecord(context.Background(), id)
			}

			So(d.Size(), ShouldEqual, int64(numSubmissions))

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < numSubmissions/numGoroutines; j++ {
						id := fmt.Sprintf("submission-%d", goroutineID*(numSubmissions/numGoroutines)+j)
						d.Unrecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then every submission should be removed", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeEdgeCases(t *testing.T) {
	Convey("Given a deduper with edge cases", t, func() {
		Convey("When recording an empty string", func() {
			d := dedupe.NewInMemoryDeduper()

			seen := d.SeenAndRecord(context.Background(), "")

			Convey("Then it should treat it as a regular ID", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), "")
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When recording very long strings", func() {
			d := dedupe.NewInMemoryDeduper()

			longString := strings.Repeat("a", 10000)
			seen := d.SeenAndRecord(context.Background(), longString)

			Convey("Then it should handle long strings", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), longString)
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When using nil context", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should not panic", func() {
				So(func() { d.SeenAndRecord(nil, "submission-1") }, ShouldNotPanic)
				So(func() { d.Unrecord(nil, "submission-1") }, ShouldNotPanic)
			})
		})

		Convey("When using very small max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1))

			Convey("And adding multiple submissions", func() {
				seen1 := d.SeenAndRecord(context.Background(), "submission-1")
				So(seen1, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// The second submission evicts the first.
				seen2 := d.SeenAndRecord(context.Background(), "submission-2")
				So(seen2, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen1Again := d.SeenAndRecord(context.Background(), "submission-1")
				So(seen1Again, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When using negative max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

			Convey("Then it should be unbounded", func() {
				const numSubmissions = 1000
				for i := 0; i < numSubmissions; i++ {
					id := fmt.Sprintf("submission-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				So(d.Size(), ShouldEqual, int64(numSubmissions))
			})
		})
	})
}

func TestDedupeOptions(t *testing.T) {
	Convey("Given dedupe options", t, func() {
		Convey("When using WithMaxSize", func() {
			Convey("Then it should set the max size", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(500))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is zero", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is negative", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-100))
				So(d, ShouldNotBeNil)
			})
		})
	})
}
