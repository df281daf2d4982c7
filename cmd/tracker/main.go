package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-schoolbus/internal/config"
	"backend-schoolbus/internal/shared/geo"
	"backend-schoolbus/internal/trip"
	"backend-schoolbus/internal/tripsync"
)

// tracker is the driver-side publisher: it keeps a trip channel open and
// forwards GPS samples while the trip is running. Without real hardware it
// simulates a bus moving along a fixed bearing.
func main() {
	var (
		tripID   = flag.String("trip", "", "trip id to publish for")
		token    = flag.String("token", "", "driver access token")
		interval = flag.Duration("interval", 3*time.Second, "sample interval")
		lat      = flag.Float64("lat", 10.7769, "start latitude")
		lng      = flag.Float64("lng", 106.7009, "start longitude")
	)
	flag.Parse()

	if *tripID == "" || *token == "" {
		log.Fatal("both -trip and -token are required")
	}

	cfg := config.Load()
	client := tripsync.NewClient(tripsync.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   *token,
		TripID:  *tripID,
		OnChange: func(st tripsync.TripState) {
			log.Printf("trip %s: connection=%s status=%s attempt=%d",
				st.TripID, st.ConnectionStatus, st.TripStatus, st.ReconnectAttempt)
		},
	})
	if err := client.Start(); err != nil {
		log.Fatalf("start sync client: %v", err)
	}
	defer client.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	samples := make(chan trip.Location)
	go feedSamples(ctx, newSimulator(*lat, *lng, 30), *interval, samples)

	sent, dropped := tripsync.NewPublisher(client).Run(ctx, samples)
	log.Printf("tracker stopped: %d samples sent, %d dropped", sent, dropped)
}

// simulator moves north-east at a roughly constant road speed.
type simulator struct {
	lat, lng float64
	speedKmh float64
}

func newSimulator(lat, lng, speedKmh float64) *simulator {
	return &simulator{lat: lat, lng: lng, speedKmh: speedKmh}
}

// next advances the position by the distance covered in the given interval
// and returns the resulting sample.
func (s *simulator) next(interval time.Duration) trip.Location {
	prevLat, prevLng := s.lat, s.lng

	stepKm := s.speedKmh * interval.Hours()
	// One degree of latitude is ~111 km; longitude shrinks with latitude.
	dLat := stepKm / 111.0 / math.Sqrt2
	dLng := stepKm / (111.0 * math.Cos(s.lat*math.Pi/180)) / math.Sqrt2
	s.lat += dLat
	s.lng += dLng

	return trip.Location{
		Lat:        s.lat,
		Lng:        s.lng,
		Speed:      geo.HaversineKm(prevLat, prevLng, s.lat, s.lng) / interval.Hours(),
		Heading:    geo.BearingDeg(prevLat, prevLng, s.lat, s.lng),
		Accuracy:   5,
		ObservedAt: time.Now(),
	}
}

func feedSamples(ctx context.Context, sim *simulator, interval time.Duration, out chan<- trip.Location) {
	defer close(out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- sim.next(interval):
			case <-ctx.Done():
				return
			}
		}
	}
}
