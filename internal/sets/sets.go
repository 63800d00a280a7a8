// Package sets has the small generic set helpers the gossip bookkeeping
// is built on. Sets are plain map[T]struct{}; all helpers return fresh maps.
package sets

func Minus[T comparable](x, y map[T]struct{}) map[T]struct{} {
	res := make(map[T]struct{}, len(x))
	for k := range x {
		if _, ok := y[k]; !ok {
			res[k] = struct{}{}
		}
	}

	return res
}

func Union[T comparable](x, y map[T]struct{}) map[T]struct{} {
	res := make(map[T]struct{}, len(x)+len(y))
	for k := range x {
		res[k] = struct{}{}
	}

	for k := range y {
		res[k] = struct{}{}
	}

	return res
}

func Elements[T comparable](m map[T]struct{}) []T {
	l := make([]T, 0, len(m))
	for k := range m {
		l = append(l, k)
	}

	return l
}

func FromSlice[T comparable](l []T) map[T]struct{} {
	m := make(map[T]struct{}, len(l))
	for _, v := range l {
		m[v] = struct{}{}
	}

	return m
}
