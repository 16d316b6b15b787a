package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// 100KB на тело запроса
const maxBodyBytes = 100 << 10

var errMalformedBody = errors.New("malformed request body")

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// readBody принимает JSON и urlencoded формы; всё остальное - пустой объект
func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if r.Body == nil || r.Body == http.NoBody {
		return body, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	switch {
	case checkContentType(r, "application/json"):
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return body, nil
		}

		decoder := json.NewDecoder(bytes.NewReader(raw))
		decoder.UseNumber()

		var decoded any
		if err := decoder.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		// на верхнем уровне допустимы только объект и массив
		switch v := decoded.(type) {
		case map[string]any:
			return v, nil
		case []any:
			return body, nil
		default:
			return nil, fmt.Errorf("%w: top-level JSON value must be an object or array", errMalformedBody)
		}

	case checkContentType(r, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		for key, values := range r.PostForm {
			// subtasks[]=a&subtasks[]=b - массив под ключом subtasks
			if name, ok := strings.CutSuffix(key, "[]"); ok {
				items := make([]any, 0, len(values))
				for _, v := range values {
					items = append(items, v)
				}
				body[name] = items
				continue
			}
			if len(values) == 1 {
				body[key] = values[0]
				continue
			}
			items := make([]any, len(values))
			for i, v := range values {
				items[i] = v
			}
			body[key] = items
		}
	}

	return body, nil
}
