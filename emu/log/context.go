package log

// A ContextAdder adds fields to every log entry. The CPU registers itself as
// a context so that entries carry the program counter they were emitted at.
type ContextAdder interface {
	AddLogContext(z *EntryZ)
}

var contexts []ContextAdder

func AddContext(ctx ContextAdder) {
	contexts = append(contexts, ctx)
}

func RemoveContext(ctx ContextAdder) {
	for i, c := range contexts {
		if c == ctx {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
