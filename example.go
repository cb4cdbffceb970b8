package refiner

// Example is a pre-written project description offered for quick loading.
type Example struct {
	Key   string
	Title string
	Text  string
}

// Examples is an ordered example catalog.
type Examples []Example

// Lookup returns the example with the given key.
func (e Examples) Lookup(key string) (Example, bool) {
	for _, ex := range e {
		if ex.Key == key {
			return ex, true
		}
	}
	return Example{}, false
}
