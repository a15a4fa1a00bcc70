package main

// Score a resume against a job description without starting the server:
//   go run ./cmd/matchcli -resume cv.pdf -jd job.txt

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-matcher/internal/analyses/recommendations"
	"resume-matcher/internal/bootstrap"
	"resume-matcher/internal/extract"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/matching"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/skills"
)

type report struct {
	Score           float64                          `json:"score"`
	Band            string                           `json:"band,omitempty"`
	Match           matching.MatchResult             `json:"match"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
	Insight         *llm.Insight                     `json:"insight,omitempty"`
}

func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jdPath := flag.String("jd", "", "Path to job description file (optional)")
	strategyName := flag.String("strategy", matching.StrategyBlended, "Scoring strategy: blended or lexical")
	skillsPath := flag.String("skills", cfg.SkillsFile, "Path to a YAML skill vocabulary (optional)")
	withInsight := flag.Bool("insight", false, "Ask the configured LLM provider for feedback")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	ctx := context.Background()

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	resumeText := extract.Text(ctx, resumeBytes, filepath.Base(*resumePath))
	if resumeText == "" {
		exitErr("could not extract text from " + *resumePath)
	}

	jobDescription := ""
	if strings.TrimSpace(*jdPath) != "" {
		jdBytes, err := os.ReadFile(*jdPath)
		if err != nil {
			exitErr(fmt.Sprintf("read job description: %v", err))
		}
		jobDescription = strings.TrimSpace(extract.Text(ctx, jdBytes, filepath.Base(*jdPath)))
	}

	vocab := skills.DefaultVocabulary()
	if strings.TrimSpace(*skillsPath) != "" {
		vocab, err = skills.LoadVocabulary(*skillsPath)
		if err != nil {
			exitErr(fmt.Sprintf("load skills: %v", err))
		}
	}

	strategy, ok := bootstrap.BuildStrategies(cfg, vocab).Get(*strategyName)
	if !ok {
		exitErr(fmt.Sprintf("unknown strategy: %s", *strategyName))
	}
	target := jobDescription
	if target == "" {
		target = vocab.Document()
	}
	match := strategy.Score(resumeText, target)

	out := report{
		Score: match.BlendedScorePercent,
		Match: match,
		Recommendations: recommendations.GenerateRecommendations(recommendations.Input{
			Score:             match.BlendedScorePercent,
			HasJobDescription: jobDescription != "",
			ResumeSkills:      match.ResumeSkills,
			MissingSkills:     match.MissingSkills,
			MissingTerms:      match.MissingTerms,
		}),
	}

	if jobDescription != "" {
		out.Band = matching.Band(match.BlendedScorePercent)
	}

	if *withInsight {
		gen := llm.NewGenerator(bootstrap.LLMClient(ctx, cfg), cfg.LLMTimeout, cfg.LLMProvider)
		prompt := llm.ResumeFeedbackPrompt(resumeText, nil)
		if jobDescription != "" {
			prompt = llm.MatchCoachingPrompt(resumeText, jobDescription, match.BlendedScorePercent, match.MissingSkills, match.MissingTerms)
		}
		insight := gen.Generate(ctx, prompt)
		out.Insight = &insight
	}

	raw, err := json.Marshal(out)
	if err != nil {
		exitErr(fmt.Sprintf("encode: %v", err))
	}
	pretty, err := prettyJSON(raw)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	_, _ = os.Stdout.Write([]byte("\n"))
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
