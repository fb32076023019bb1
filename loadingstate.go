package main

// loadingState tracks which startup fetches have completed so the
// spinner can report what the app is still waiting on.
type loadingState map[string]bool

func newLoadingState(keys ...string) loadingState {
	l := make(loadingState, len(keys))
	for _, k := range keys {
		l[k] = false
	}
	return l
}

func (l loadingState) set(key string)   { l[key] = true }
func (l loadingState) unset(key string) { l[key] = false }

// allLoaded reports whether every key has loaded; if not, it returns
// the first key still pending.
func (l loadingState) allLoaded() (bool, string) {
	for k, v := range l {
		if !v {
			return false, k
		}
	}

	return true, ""
}
