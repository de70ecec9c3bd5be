package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"creator-campaign-workers/pkg/registry"
)

const defaultTimeout = 30 * time.Second

// workerData feeds the file templates.
type workerData struct {
	Name         string
	Description  string
	PackageName  string
	TaskType     string
	Timeout      string
	ErrorCodes   []string
	InputFields  []field
	OutputFields []field
}

type field struct {
	Name    string
	Type    string
	JSON    string
	Comment string
}

var templates = map[string]string{
	"config.go":  configTemplate,
	"models.go":  modelsTemplate,
	"handler.go": handlerTemplate,
}

// generate writes a worker scaffold for activity under outputDir and returns
// the paths it wrote. Existing files are left alone unless force is set.
func generate(activity *registry.Activity, outputDir string, force bool) ([]string, error) {
	data, err := newWorkerData(activity)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(outputDir, mapCategoryToDirectory(activity.Category), activity.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		src, err := render(name, templates[name], data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func newWorkerData(a *registry.Activity) (*workerData, error) {
	timeout := defaultTimeout
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return nil, fmt.Errorf("activity %s: bad timeout %q: %w", a.ID, a.Timeout, err)
		}
		timeout = d
	}

	return &workerData{
		Name:         a.DisplayName,
		Description:  strings.Join(strings.Fields(a.Description), " "),
		PackageName:  strings.ReplaceAll(a.ID, "-", ""),
		TaskType:     a.TaskType,
		Timeout:      durationExpr(timeout),
		ErrorCodes:   a.ErrorCodes,
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
	}, nil
}

// render executes a template and gofmts the result.
func render(name, tmpl string, data *workerData) ([]byte, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", name, err)
	}
	return src, nil
}

// schemaFields turns the top-level properties of a JSON schema into struct
// fields, sorted by name so output is stable.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		details, _ := props[k].(map[string]interface{})
		tag := k
		if !required[k] {
			tag += ",omitempty"
		}
		desc, _ := details["description"].(string)
		desc = strings.Join(strings.Fields(desc), " ")
		fields = append(fields, field{
			Name:    goName(k),
			Type:    goType(details),
			JSON:    fmt.Sprintf("`json:\"%s\"`", tag),
			Comment: desc,
		})
	}
	return fields
}

func goType(details map[string]interface{}) string {
	if _, ok := details["$ref"]; ok {
		return "map[string]interface{}"
	}
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goName exports a camelCase JSON name, keeping common initialisms upper case.
func goName(s string) string {
	if s == "" {
		return s
	}
	name := strings.ToUpper(s[:1]) + s[1:]
	for _, suffix := range []string{"Id", "Url"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix) + strings.ToUpper(suffix)
		}
	}
	return name
}

func durationExpr(d time.Duration) string {
	switch {
	case d%time.Second == 0:
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	default:
		return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
	}
}

// mapCategoryToDirectory maps registry categories to directories under internal/workers.
func mapCategoryToDirectory(category string) string {
	switch category {
	case "application", "communication", "":
		return "application"
	default:
		return strings.ToLower(category)
	}
}
