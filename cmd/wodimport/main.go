package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion"
)

// wodimport pushes program files into a running server, or with -dry-run
// parses them locally and prints the records it would import.
//
// Usage:
//
//	wodimport [-server URL] [-token TOKEN] [-title T] [-source S] FILE|DIR ...
//	wodimport -dry-run FILE|DIR ...

var programExts = map[string]bool{
	".txt":  true,
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

type programFile struct {
	Path string
	Kind string
	Data []byte
}

type apiErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type importResultPayload struct {
	FileName string            `json:"file_name"`
	Workouts []json.RawMessage `json:"workouts"`
	Error    *apiErrorPayload  `json:"error"`
}

type importResponse struct {
	Program  json.RawMessage       `json:"program"`
	Workouts []json.RawMessage     `json:"workouts"`
	Results  []importResultPayload `json:"results"`
	Error    *apiErrorPayload      `json:"error"`
}

func main() {
	var (
		server = flag.String("server", "http://localhost:8080", "server base URL")
		token  = flag.String("token", "", "bearer token (falls back to WODWISDOM_TOKEN)")
		title  = flag.String("title", "", "program title for the import")
		source = flag.String("source", "", "source hint, e.g. \"generate\" for AI output")
		dryRun = flag.Bool("dry-run", false, "parse locally and print records without importing")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Println("no files or directories given")
		flag.Usage()
		os.Exit(1)
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		fmt.Printf("collect files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("no program files found (looking for *.txt *.csv *.xlsx *.xls)")
		os.Exit(1)
	}

	if *dryRun {
		os.Exit(runDry(files, *source))
	}

	bearer := strings.TrimSpace(*token)
	if bearer == "" {
		bearer = strings.TrimSpace(os.Getenv("WODWISDOM_TOKEN"))
	}
	if bearer == "" {
		fmt.Println("missing bearer token: pass -token or set WODWISDOM_TOKEN")
		os.Exit(1)
	}

	os.Exit(runImport(*server, bearer, *title, *source, files))
}

// collectFiles expands the argument list, walking directories for program
// files and keeping a stable path order.
func collectFiles(args []string) ([]programFile, error) {
	seen := map[string]bool{}
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !seen[arg] {
				seen[arg] = true
				paths = append(paths, arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !programExts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	sort.Strings(paths)

	files := make([]programFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, programFile{
			Path: path,
			Kind: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			Data: data,
		})
	}
	return files, nil
}

func runDry(files []programFile, source string) int {
	failed := 0
	for _, f := range files {
		records, err := ingestion.Parse(ingestion.Input{
			FileBytes: f.Data,
			FileKind:  f.Kind,
			Source:    source,
		})
		if err != nil {
			failed++
			fmt.Printf("%s: %v\n", f.Path, err)
			continue
		}
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			failed++
			fmt.Printf("%s: %v\n", f.Path, err)
			continue
		}
		fmt.Printf("%s: %d workouts\n%s\n", f.Path, len(records), out)
	}
	fmt.Printf("done; parsed=%d failed=%d\n", len(files)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func runImport(server, bearer, title, source string, files []programFile) int {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if title != "" {
		_ = writer.WriteField("title", title)
	}
	if source != "" {
		_ = writer.WriteField("source", source)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", filepath.Base(f.Path))
		if err != nil {
			fmt.Printf("build request: %v\n", err)
			return 1
		}
		if _, err := part.Write(f.Data); err != nil {
			fmt.Printf("build request: %v\n", err)
			return 1
		}
	}
	if err := writer.Close(); err != nil {
		fmt.Printf("build request: %v\n", err)
		return 1
	}

	url := strings.TrimRight(server, "/") + "/api/programs/import"
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		fmt.Printf("build request: %v\n", err)
		return 1
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("import request: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		fmt.Printf("read response: %v\n", err)
		return 1
	}

	var parsed importResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		fmt.Printf("unexpected response (%d): %s\n", resp.StatusCode, raw)
		return 1
	}
	if parsed.Error != nil {
		fmt.Printf("import failed (%d): %s [%s]\n", resp.StatusCode, parsed.Error.Message, parsed.Error.Code)
		return 1
	}

	// Single-file imports come back flat, batches as per-file results.
	if len(parsed.Results) == 0 {
		fmt.Printf("%s: imported %d workouts\n", files[0].Path, len(parsed.Workouts))
		fmt.Printf("done; imported=1 failed=0\n")
		return 0
	}

	failed := 0
	for _, res := range parsed.Results {
		if res.Error != nil {
			failed++
			fmt.Printf("%s: %s [%s]\n", res.FileName, res.Error.Message, res.Error.Code)
			continue
		}
		fmt.Printf("%s: imported %d workouts\n", res.FileName, len(res.Workouts))
	}
	fmt.Printf("done; imported=%d failed=%d\n", len(parsed.Results)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}
