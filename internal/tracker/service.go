package tracker

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/timeguardian/timeguardian/internal/capture"
	"github.com/timeguardian/timeguardian/internal/config"
	"github.com/timeguardian/timeguardian/internal/models"
	"github.com/timeguardian/timeguardian/pkg/integrations/process"
	"github.com/timeguardian/timeguardian/pkg/visibility"
	"github.com/timeguardian/timeguardian/pkg/window"
)

// Store persists what the tracker observes
type Store interface {
	CreateSamples(samples []*models.VisibilitySample) error
	CreateErrorLog(errorLog *models.ErrorLog) error
}

// ErrStopped is returned by Start once Stop has been called. A Service runs
// at most once.
var ErrStopped = errors.New("tracker has been stopped")

// Capturer grabs the screen contents under a canvas
type Capturer interface {
	Grab(canvas visibility.Canvas) (*image.RGBA, error)
	Close() error
}

type Service struct {
	config     *config.Config
	store      Store
	enumerator window.Enumerator
	resolver   *process.Resolver

	// openCapture starts a capture session when capture is enabled
	openCapture func() (Capturer, error)
	// fallbackDisplays is used when the enumerator reports no displays
	fallbackDisplays func() []visibility.Display

	capturer  Capturer
	prevFrame *image.RGBA

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

func NewService(cfg *config.Config, store Store, enumerator window.Enumerator) *Service {
	return &Service{
		config:     cfg,
		store:      store,
		enumerator: enumerator,
		resolver:   process.NewResolver(),
		openCapture: func() (Capturer, error) {
			return capture.Open()
		},
		fallbackDisplays: capture.Displays,
		stopChan:         make(chan struct{}),
	}
}

// Start samples immediately and then on every poll interval until ctx is
// cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("tracker is already running")
	}
	defer s.running.Store(false)

	select {
	case <-s.stopChan:
		return ErrStopped
	default:
	}

	log.Printf("Starting tracker with %v poll interval", s.config.Tracker.PollInterval)

	if s.config.Capture.Enabled {
		c, err := s.openCapture()
		if err != nil {
			log.Printf("Screen capture unavailable, tracking visibility only: %v", err)
		} else {
			s.capturer = c
			defer func() {
				s.capturer.Close()
				s.capturer = nil
				s.prevFrame = nil
			}()
		}
	}

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Tracker stopped by context")
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Tracker stopped")
			return nil

		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop ends a running Start and makes later calls to Start fail with
// ErrStopped. It is safe to call more than once and before Start.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) IsRunning() bool {
	return s.running.Load()
}

func (s *Service) tick(ctx context.Context) {
	stored, err := s.trackOnce(ctx)
	if err != nil {
		phase := models.PhaseObserve
		var pe *phaseError
		if errors.As(err, &pe) {
			phase = pe.phase
		}
		s.storeError(phase, err)
	}
	if stored > 0 {
		log.Printf("Tracked %d visible windows", stored)
	}
}

// Observation is one look at the screen: the windows that took part, the
// bitmap they were painted into and how visible each one is.
type Observation struct {
	Timestamp time.Time
	Windows   []visibility.Window
	Displays  []visibility.Display
	Bitmap    *visibility.Bitmap
	Result    visibility.Result
}

// Observe lists windows and displays and computes their visibility
func (s *Service) Observe(ctx context.Context) (*Observation, error) {
	windows, err := s.enumerator.ListWindows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list windows")
	}
	s.resolver.Fill(windows)
	s.resolver.Forget(windows)

	displays, err := s.enumerator.ListDisplays(ctx)
	if err != nil {
		log.Printf("Failed to list displays, using capture backend: %v", err)
	}
	if len(displays) == 0 && s.fallbackDisplays != nil {
		displays = s.fallbackDisplays()
	}

	b, err := visibility.CreateBitmap(windows, displays, s.config.Tracker.Layers...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window bitmap")
	}

	return &Observation{
		Timestamp: time.Now(),
		Windows:   b.Windows(),
		Displays:  displays,
		Bitmap:    b,
		Result:    b.Visibility(),
	}, nil
}

// trackOnce observes the screen and stores one sample per visible window.
// It returns the number of samples stored.
func (s *Service) trackOnce(ctx context.Context) (int, error) {
	obs, err := s.Observe(ctx)
	if err != nil {
		return 0, err
	}

	changed := s.changedPixels(obs.Bitmap)
	samples := s.buildSamples(obs, changed)

	if err := s.store.CreateSamples(samples); err != nil {
		return 0, &phaseError{phase: models.PhaseStore, err: fmt.Errorf("failed to save samples: %w", err)}
	}

	if s.config.Visualization.Enabled {
		if err := obs.Bitmap.Save(s.config.Visualization.Path); err != nil {
			s.storeError(models.PhaseVisualize, err)
		}
	}

	return len(samples), nil
}

func (s *Service) buildSamples(obs *Observation, changed map[visibility.WindowID]int) []*models.VisibilitySample {
	duration := int64(s.config.Tracker.PollInterval.Seconds())
	server := s.enumerator.GetDisplayServer()

	var samples []*models.VisibilitySample
	seen := make(map[visibility.WindowID]bool, len(obs.Windows))
	// front to back, so a duplicated id is recorded with its topmost window
	for i := len(obs.Windows) - 1; i >= 0; i-- {
		w := obs.Windows[i]
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true

		percent := obs.Result[w.ID]
		if percent <= 0 || percent < s.config.Tracker.MinVisiblePercent {
			continue
		}

		pixels := changed[w.ID]
		if pixels < s.config.Capture.MinChangedPixels {
			pixels = 0
		}

		samples = append(samples, &models.VisibilitySample{
			Timestamp:      obs.Timestamp,
			WindowID:       uint64(w.ID),
			AppName:        w.AppName,
			WindowTitle:    w.Title,
			PID:            w.PID,
			Layer:          w.Layer,
			VisiblePercent: percent,
			ChangedPixels:  pixels,
			Duration:       duration,
			DisplayServer:  server,
		})
	}
	return samples
}

// changedPixels grabs a frame and attributes the pixels that changed since
// the previous frame. It returns nil when capture is off or nothing moved.
func (s *Service) changedPixels(b *visibility.Bitmap) map[visibility.WindowID]int {
	if s.capturer == nil {
		return nil
	}

	cur, err := s.capturer.Grab(b.Canvas())
	if err != nil {
		log.Printf("Screen capture failed: %v", err)
		return nil
	}

	prev := s.prevFrame
	s.prevFrame = cur
	if prev == nil || prev.Rect.Size() != cur.Rect.Size() {
		return nil
	}
	if !visibility.SignificantlyDifferent(prev, cur, s.config.Capture.SignificantFraction) {
		return nil
	}

	changed, err := visibility.ChangedPixels(b, prev, cur, s.config.Capture.DiffThreshold)
	if err != nil {
		log.Printf("Failed to attribute changed pixels: %v", err)
		return nil
	}
	return changed
}

// phaseError tags a tick failure with the phase it happened in
type phaseError struct {
	phase string
	err   error
}

func (e *phaseError) Error() string { return e.err.Error() }
func (e *phaseError) Unwrap() error { return e.err }

func (s *Service) storeError(phase string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		Phase:     phase,
		ErrorMsg:  err.Error(),
		CreatedAt: time.Now(),
	}

	if dbErr := s.store.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	} else {
		log.Printf("Error logged to database: %v", err)
	}
}
