package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"resumelens/internal/llm/prompts"
	"resumelens/pkg/models"
)

// promptpreview renders the exact prompt a request would produce, without
// calling any provider. Pipe a request JSON in, read the prompt out.
func main() {
	var (
		phase     = flag.String("phase", "analysis", "phase to preview: analysis or rewrite")
		inputPath = flag.String("input", "", "path to a request JSON file (default: stdin)")
		system    = flag.Bool("system", false, "print the system prompt instead of the user message")
	)
	flag.Parse()

	if *system {
		switch *phase {
		case "analysis":
			fmt.Println(prompts.AnalysisSystemPrompt())
		case "rewrite":
			fmt.Println(prompts.RewriteSystemPrompt())
		default:
			log.Fatalf("unknown phase: %s", *phase)
		}
		return
	}

	data, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("failed to read request: %v", err)
	}

	switch *phase {
	case "analysis":
		var req models.AnalyzeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Fatalf("failed to parse analyze request: %v", err)
		}
		fmt.Println(prompts.BuildAnalysisMessage(&req))
	case "rewrite":
		var req models.RewriteRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Fatalf("failed to parse rewrite request: %v", err)
		}
		if req.Analysis == nil {
			log.Fatal("rewrite request must embed a prior analysis result")
		}
		fmt.Println(prompts.BuildRewriteMessage(&req))
	default:
		log.Fatalf("unknown phase: %s", *phase)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
