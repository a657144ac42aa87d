package collate

import "fmt"

// Walk visits every leaf of s depth-first in structural order. Paths join mapping
// keys with "." and tuple positions as "[i]"; the root leaf has an empty path.
// A non-nil error from fn stops the walk and is returned.
func Walk(s Structure, fn func(path string, leaf Leaf) error) error {
	return walk("", s, fn)
}

func walk(path string, s Structure, fn func(string, Leaf) error) error {
	switch v := s.(type) {
	case Leaf:
		return fn(path, v)
	case Tuple:
		for i, item := range v {
			if err := walk(fmt.Sprintf("%s[%d]", path, i), item, fn); err != nil {
				return err
			}
		}
		return nil
	case *Mapping:
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			if err := walk(joinKey(path, key), item, fn); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("walk %s: nil structure", path)
	}
}
