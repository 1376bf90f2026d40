// Package tracking drives the interactive acquisition of a keyframe
// sequence (draw, step forward/back, confirm or save) and expands
// saved sequences into dense per-frame boxes.
package tracking

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/okian/glossa/internal/domain/model"
)

// Default workflow configuration constants.
const (
	defaultFPS = 25.0
)

// State is the workflow's explicit state value. Keeping it a single
// tagged value (instead of booleans scattered across UI callbacks)
// makes contradictory flag combinations unrepresentable.
type State int

// Workflow states.
const (
	// Idle means no box is in progress.
	Idle State = iota
	// Boxed means an ephemeral box exists at the current frame,
	// awaiting adjustment, stepping, confirmation, or save.
	Boxed
)

func (s State) String() string {
	if s == Boxed {
		return "boxed"
	}
	return "idle"
}

// Workflow owns the transient state of one tracked box for one
// annotation session. It performs no I/O and never blocks; callers
// serialize transitions (one user-input event at a time).
type Workflow struct {
	state       State
	totalFrames int
	fps         float64

	// Playback position.
	frame int
	time  float64

	// The ephemeral box under adjustment. Not a keyframe until a
	// forward step or save records it.
	box   model.Box
	label string
	color string

	keyframes []model.Keyframe
}

// Option applies a configuration option to the Workflow.
type Option func(*Workflow)

// WithFPS sets the media frame rate used to derive the playback time
// of stepped-to frames.
func WithFPS(fps float64) Option {
	return func(w *Workflow) {
		if fps > 0 {
			w.fps = fps
		}
	}
}

// New creates a workflow for media with the given total frame count.
func New(totalFrames int, opts ...Option) *Workflow {
	w := &Workflow{
		totalFrames: totalFrames,
		fps:         defaultFPS,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// Frame returns the current playback frame.
func (w *Workflow) Frame() int {
	return w.frame
}

// Box returns the ephemeral box and whether one exists.
func (w *Workflow) Box() (model.Box, bool) {
	return w.box, w.state == Boxed
}

// Keyframes returns a copy of the recorded keyframe history.
func (w *Workflow) Keyframes() []model.Keyframe {
	out := make([]model.Keyframe, len(w.keyframes))
	copy(out, w.keyframes)
	return out
}

// Draw starts a new box at the given frame and time. Only valid from
// Idle; the box is ephemeral and not yet a keyframe.
func (w *Workflow) Draw(box model.Box, frame int, time float64, label, color string) error {
	if w.state != Idle {
		return ErrAlreadyBoxed
	}
	if frame < 0 || frame >= w.totalFrames {
		return fmt.Errorf("%w: frame %d of %d", ErrMediaEnd, frame, w.totalFrames)
	}
	w.state = Boxed
	w.frame = frame
	w.time = time
	w.box = box
	w.label = label
	w.color = color
	return nil
}

// Adjust repositions or resizes the current box without changing
// state.
func (w *Workflow) Adjust(box model.Box) error {
	if w.state != Boxed {
		return ErrNoBox
	}
	w.box = box
	return nil
}

// TrackNext records the current box as a keyframe at the current frame
// and advances playback by interval frames. Stepping past the end of
// media is rejected with no state change. A keyframe already recorded
// at the current frame is updated in place rather than duplicated.
func (w *Workflow) TrackNext(interval int) error {
	if w.state != Boxed {
		return ErrNoBox
	}
	if interval <= 0 {
		return fmt.Errorf("%w: %d", ErrBadInterval, interval)
	}
	target := w.frame + interval
	if target >= w.totalFrames {
		return fmt.Errorf("%w: frame %d of %d", ErrMediaEnd, target, w.totalFrames)
	}
	w.recordKeyframe()
	w.frame = target
	w.time = w.timeAt(target)
	return nil
}

// TrackPrev rolls playback back by interval frames, discarding every
// keyframe at or after the target frame (forward history is
// truncated). It is rejected when there is no keyframe history or the
// target precedes the first recorded keyframe. The box is kept for
// re-adjustment at the target frame.
func (w *Workflow) TrackPrev(interval int) error {
	if w.state != Boxed {
		return ErrNoBox
	}
	if interval <= 0 {
		return fmt.Errorf("%w: %d", ErrBadInterval, interval)
	}
	if len(w.keyframes) == 0 {
		return ErrNoHistory
	}
	target := w.frame - interval
	if target < w.keyframes[0].Frame {
		return fmt.Errorf("%w: frame %d precedes %d", ErrBeforeFirstKey, target, w.keyframes[0].Frame)
	}
	kept := w.keyframes[:0]
	for _, k := range w.keyframes {
		if k.Frame < target {
			kept = append(kept, k)
		}
	}
	w.keyframes = kept
	w.frame = target
	w.time = w.timeAt(target)
	return nil
}

// Confirm emits one single-frame annotation at the current frame and
// returns to Idle, discarding any in-progress keyframe history. It is
// the shortcut for a one-frame event rather than a tracked sequence.
func (w *Workflow) Confirm() (model.Annotation, error) {
	if w.state != Boxed {
		return model.Annotation{}, ErrNoBox
	}
	k := w.currentKeyframe()
	ann := model.Annotation{
		ID:         uuid.NewString(),
		Label:      w.label,
		Color:      w.color,
		StartFrame: k.Frame,
		EndFrame:   k.Frame,
		FrameCount: 1,
		StartTime:  k.Time,
		EndTime:    k.Time,
		Keyframes:  []model.Keyframe{k},
		Frames:     []model.InterpolatedFrame{{Frame: k.Frame, Box: k.Box, Time: k.Time, Label: k.Label}},
	}
	w.reset()
	return ann, nil
}

// SaveSequence finalizes the keyframe sequence. The current box is
// recorded at the current frame if it is not already, the keyframes
// are sorted by frame number (defensive; the workflow keeps them
// ordered), and the sequence is expanded into dense per-frame boxes.
// The workflow resets to Idle with all transient state cleared.
func (w *Workflow) SaveSequence() (model.Annotation, error) {
	if w.state != Boxed && len(w.keyframes) == 0 {
		return model.Annotation{}, ErrNothingToSave
	}
	if w.state == Boxed {
		w.recordKeyframe()
	}
	keyframes := w.keyframes
	sort.SliceStable(keyframes, func(i, j int) bool {
		return keyframes[i].Frame < keyframes[j].Frame
	})
	seq := model.KeyframeSequence{
		ID:        uuid.NewString(),
		Label:     w.label,
		Color:     w.color,
		Keyframes: keyframes,
	}
	if err := seq.Validate(); err != nil {
		return model.Annotation{}, err
	}
	frames, err := Interpolate(seq.Keyframes)
	if err != nil {
		return model.Annotation{}, err
	}
	first, last := keyframes[0], keyframes[len(keyframes)-1]
	ann := model.Annotation{
		ID:         seq.ID,
		Label:      seq.Label,
		Color:      seq.Color,
		StartFrame: first.Frame,
		EndFrame:   last.Frame,
		FrameCount: len(frames),
		StartTime:  first.Time,
		EndTime:    last.Time,
		Keyframes:  keyframes,
		Frames:     frames,
	}
	w.reset()
	return ann, nil
}

// Clear discards the current box and keyframe history from any state.
// Already-saved sequences are unaffected.
func (w *Workflow) Clear() {
	w.reset()
}

// currentKeyframe snapshots the ephemeral box at the playback
// position.
func (w *Workflow) currentKeyframe() model.Keyframe {
	return model.Keyframe{
		Frame: w.frame,
		Box:   w.box,
		Time:  w.time,
		Label: w.label,
		Color: w.color,
	}
}

// recordKeyframe appends the current box, updating in place when a
// keyframe already exists at this exact frame number.
func (w *Workflow) recordKeyframe() {
	k := w.currentKeyframe()
	for i := range w.keyframes {
		if w.keyframes[i].Frame == k.Frame {
			w.keyframes[i] = k
			return
		}
	}
	w.keyframes = append(w.keyframes, k)
}

func (w *Workflow) timeAt(frame int) float64 {
	return float64(frame) / w.fps
}

func (w *Workflow) reset() {
	w.state = Idle
	w.box = model.Box{}
	w.label = ""
	w.color = ""
	w.keyframes = nil
}
