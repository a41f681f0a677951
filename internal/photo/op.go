package photo

// Op is a remote side effect of a sync run.
type Op string

const (
	OpDelete  Op = "delete"
	OpUpload  Op = "upload"
	OpReplace Op = "replace"
	// OpDedup is the delete of a duplicate upload found while listing.
	OpDedup Op = "dedup"
)

// Recorder is told about every remote operation once it has been attempted.
// err is nil on success.
type Recorder interface {
	Record(op Op, name, photoID string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Record(Op, string, string, error) {}

// NopRecorder discards everything.
var NopRecorder Recorder = nopRecorder{}
