package rio

import "github.com/rioruntime/rio/internal/rlog"

// Logger is the structured logging interface the runtime writes diagnostic
// events to. testutil.MakeLogger provides a zap-backed implementation
// suitable for tests; production callers typically adapt their own
// *zap.Logger, since the method set matches it exactly except for Trace and
// Verbo.
type Logger = rlog.Logger
