package patch

import (
	"encoding"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/gogpu/gpunode/internal/cache"
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	imageType           = reflect.TypeFor[image.Image]()
)

// convert turns a literal into a value of type t. Null becomes nil, which
// pins treat as "restore the default".
func convert(v cty.Value, t reflect.Type, dir string) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: unknown value", ErrValue)
	}
	out := reflect.New(t).Elem()
	if err := assign(v, out, dir); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func assign(v cty.Value, out reflect.Value, dir string) error {
	t := out.Type()
	switch {
	case v.IsNull():
		return nil

	case v.Type() == cty.String && t == imageType:
		path := v.AsString()
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		img, err := decodeImage(path)
		if err != nil {
			return err
		}
		out.Set(reflect.ValueOf(img))
		return nil

	case v.Type() == cty.String && reflect.PointerTo(t).Implements(textUnmarshalerType):
		u := out.Addr().Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(v.AsString())); err != nil {
			return fmt.Errorf("%w: %w", ErrValue, err)
		}
		return nil

	case (v.Type().IsTupleType() || v.Type().IsListType()) && t.Kind() == reflect.Slice:
		s := reflect.MakeSlice(t, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			e := reflect.New(t.Elem()).Elem()
			if err := assign(ev, e, dir); err != nil {
				return err
			}
			s = reflect.Append(s, e)
		}
		out.Set(s)
		return nil
	}

	if err := gocty.FromCtyValue(v, out.Addr().Interface()); err != nil {
		return fmt.Errorf("%w: %s into %s: %w", ErrValue, v.Type().FriendlyName(), t, err)
	}
	return nil
}

// imageKey identifies one version of an image file.
type imageKey struct {
	path string
	mod  time.Time
	size int64
}

// images holds decoded image literals shared by all patches.
var images = cache.New[imageKey, image.Image](32)

func decodeImage(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValue, err)
	}
	key := imageKey{path: path, mod: fi.ModTime(), size: fi.Size()}
	return images.GetOrLoad(key, func(k imageKey) (image.Image, error) {
		f, err := os.Open(k.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValue, err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %w", ErrValue, k.path, err)
		}
		return img, nil
	})
}
