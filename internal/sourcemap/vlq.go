package sourcemap

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift    = 5
	vlqBase     = 1 << vlqShift
	vlqMask     = vlqBase - 1
	vlqContinue = vlqBase
)

// appendVLQ appends v as a Base64 VLQ: the sign goes into the lowest bit,
// then five bits per digit, least significant first.
func appendVLQ(dst []byte, v int64) []byte {
	var u uint64
	if v < 0 {
		u = uint64(-v)<<1 | 1
	} else {
		u = uint64(v) << 1
	}
	for {
		digit := u & vlqMask
		u >>= vlqShift
		if u > 0 {
			digit |= vlqContinue
		}
		dst = append(dst, base64Digits[digit])
		if u == 0 {
			return dst
		}
	}
}
