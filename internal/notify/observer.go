package notify

import (
	"context"
	"time"

	"github.com/specialistvlad/stridegen/internal/builder"
)

// BuildObserver forwards build driver progress for one build id.
type BuildObserver struct {
	pub     Publisher
	buildID string
	now     func() time.Time
}

// NewBuildObserver returns an observer publishing to pub.
func NewBuildObserver(pub Publisher, buildID string) *BuildObserver {
	if pub == nil {
		pub = Nop{}
	}
	return &BuildObserver{pub: pub, buildID: buildID, now: time.Now}
}

var _ builder.Observer = (*BuildObserver)(nil)

// StateChanged publishes a build_status event.
func (o *BuildObserver) StateChanged(ctx context.Context, _, to builder.State) {
	o.pub.Publish(ctx, Event{Name: EventStatus, BuildID: o.buildID, State: to.String(), Time: o.now()})
}

// Output publishes a build_output event.
func (o *BuildObserver) Output(ctx context.Context, stage builder.State, text string) {
	o.pub.Publish(ctx, Event{Name: EventOutput, BuildID: o.buildID, Stage: stage.String(), Text: text, Time: o.now()})
}

// Status publishes a state outside the driver, such as Assembling.
func (o *BuildObserver) Status(ctx context.Context, state string) {
	o.pub.Publish(ctx, Event{Name: EventStatus, BuildID: o.buildID, State: state, Time: o.now()})
}
