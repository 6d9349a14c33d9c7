package locale

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"

	"gopkg.in/yaml.v3"
)

var catalogExtensions = []string{".yaml", ".yml"}

// readCatalog loads "<tag>/<domain>.yaml" (or .yml) from fsys and flattens it.
func readCatalog(fsys fs.FS, tag, domain string) (map[string]string, error) {
	for _, ext := range catalogExtensions {
		name := path.Join(tag, domain+ext)

		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parsing %q: %s", ErrInvalidCatalog, name, err)
		}
		return flatten(raw, ""), nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrCatalogNotFound, tag, domain)
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flatten(v, fullKey))
		case nil:
			result[fullKey] = ""
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
