package goconnection

const (
	MaxLimit     uint64 = 100
	DefaultLimit uint64 = 10
)

func IsNormalizedLimitMax(limit uint64, maxLimit uint64) (uint64, bool) {
	if limit == 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit uint64, maxLimit uint64) uint64 {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit uint64) uint64 {
	return NormalizeLimitMax(limit, MaxLimit)
}

// ceilDiv returns ceil(a/b) for b > 0 without floating point.
func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}

	return (a-1)/b + 1
}
