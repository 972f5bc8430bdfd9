package hashmap

import (
	"hash/maphash"
	"reflect"
	"unsafe"

	"github.com/hupe1980/collgo/internal/hash"
)

// Hasher maps a key to a 32-bit hash. It must return the same value for a key
// for as long as the key is stored.
type Hasher[K any] func(K) uint32

var seed = maphash.MakeSeed()

// HashOf returns the default hasher for K.
//
// Integer keys hash to their value folded to 32 bits. Strings and plain-data
// keys without padding hash with FNV-1a over their bytes. Every other
// comparable type goes through hash/maphash with a per-process seed.
func HashOf[K comparable]() Hasher[K] {
	t := reflect.TypeFor[K]()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integerHasher[K](t.Size())
	case reflect.String:
		return func(k K) uint32 {
			return hash.FNV1a32String(*(*string)(unsafe.Pointer(&k)))
		}
	}
	if plainData(t) {
		size := t.Size()
		return func(k K) uint32 {
			return hash.FNV1a32(unsafe.Slice((*byte)(unsafe.Pointer(&k)), size))
		}
	}
	return func(k K) uint32 {
		h := maphash.Comparable(seed, k)
		return uint32(h) ^ uint32(h>>32)
	}
}

func integerHasher[K comparable](size uintptr) Hasher[K] {
	switch size {
	case 1:
		return func(k K) uint32 { return uint32(*(*uint8)(unsafe.Pointer(&k))) }
	case 2:
		return func(k K) uint32 { return uint32(*(*uint16)(unsafe.Pointer(&k))) }
	case 4:
		return func(k K) uint32 { return *(*uint32)(unsafe.Pointer(&k)) }
	default:
		return func(k K) uint32 {
			v := *(*uint64)(unsafe.Pointer(&k))
			return uint32(v) ^ uint32(v>>32)
		}
	}
}

// plainData reports whether equal values of t always have identical bytes:
// integers, booleans, and arrays or padding-free structs of them.
func plainData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Array:
		return plainData(t.Elem())
	case reflect.Struct:
		var sum uintptr
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Name == "_" || !plainData(f.Type) {
				return false
			}
			sum += f.Type.Size()
		}
		return sum == t.Size()
	default:
		return false
	}
}
