package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/smartresume-api/internal/model"
)

// techSkills groups the curated skill dictionary by category.
var techSkills = map[string][]string{
	"programming_languages": {
		"python", "java", "javascript", "c++", "c#", "ruby", "php", "swift", "kotlin",
		"go", "rust", "scala", "r", "matlab", "sql", "html", "css", "typescript",
	},
	"frameworks": {
		"react", "angular", "vue", "node.js", "express", "django", "flask", "spring",
		"laravel", "rails", ".net", "bootstrap", "jquery", "tensorflow", "pytorch",
	},
	"databases": {
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite",
		"oracle", "sql server", "dynamodb", "cassandra",
	},
	"cloud_platforms": {
		"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "terraform",
		"jenkins", "git", "github", "gitlab", "bitbucket",
	},
	"tools": {
		"jira", "confluence", "slack", "trello", "asana", "figma", "sketch",
		"photoshop", "illustrator", "tableau", "power bi", "excel", "powerpoint",
	},
}

var softSkills = []string{
	"leadership", "communication", "teamwork", "problem solving", "analytical",
	"creative", "collaborative", "adaptable", "detail-oriented", "organized",
	"time management", "project management", "critical thinking", "innovation",
}

var experienceLevels = map[string][]string{
	"entry":  {"entry level", "junior", "0-2 years", "graduate", "intern"},
	"mid":    {"mid level", "intermediate", "2-5 years", "3-5 years"},
	"senior": {"senior", "lead", "5+ years", "7+ years", "expert", "principal"},
}

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"a": true, "an": true, "is": true, "are": true, "be": true, "will": true,
	"you": true, "your": true, "our": true, "we": true, "as": true, "this": true,
	"that": true, "from": true, "have": true, "has": true,
}

var (
	requirementRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:required|must have|essential)[:\s]+([^.]+)`),
		regexp.MustCompile(`(?i)(?:bachelor|master|phd|degree)[^.]+`),
		regexp.MustCompile(`(?i)\d+\+?\s*years?[^.]+`),
		regexp.MustCompile(`(?i)(?:experience with|proficient in|knowledge of)[^.]+`),
		regexp.MustCompile(`(?i)(?:certification|certified)[^.]+`),
	}
	bulletRe = regexp.MustCompile(`(?m)^\s*(?:•|[*\-]|\d+\.)\s*([^•*\n\-]+)`)
	yearsRe  = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
	jobClean = regexp.MustCompile(`[^\w\s.,\-()+#&]`)
)

// AnalyzeJob extracts keywords, skills, requirements, and the experience
// level from a job description.
func AnalyzeJob(jobText string) *model.JobAnalysis {
	cleaned := cleanJobText(jobText)

	skills := extractSkills(cleaned)
	return &model.JobAnalysis{
		Keywords:        ExtractKeywords(cleaned, 20),
		TechnicalSkills: skills.technical,
		SoftSkills:      skills.soft,
		Requirements:    extractRequirements(jobText),
		ExperienceLevel: determineExperienceLevel(cleaned),
		WordCount:       len(strings.Fields(cleaned)),
	}
}

func cleanJobText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = jobClean.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// ExtractKeywords ranks words by frequency after stop-word filtering.
func ExtractKeywords(text string, topN int) []string {
	freq := make(map[string]int)
	var order []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,()-")
		if len(word) <= 2 || stopWords[word] {
			continue
		}
		if freq[word] == 0 {
			order = append(order, word)
		}
		freq[word]++
	}

	// Stable sort: frequency descending, first appearance breaks ties.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

type skillSet struct {
	technical []string
	soft      []string
}

func extractSkills(lowerText string) skillSet {
	var out skillSet
	seen := make(map[string]bool)
	for _, category := range []string{"programming_languages", "frameworks", "databases", "cloud_platforms", "tools"} {
		for _, skill := range techSkills[category] {
			if strings.Contains(lowerText, skill) && !seen[skill] {
				seen[skill] = true
				out.technical = append(out.technical, skill)
			}
		}
	}
	for _, skill := range softSkills {
		if strings.Contains(lowerText, skill) && !seen[skill] {
			seen[skill] = true
			out.soft = append(out.soft, skill)
		}
	}
	return out
}

func extractRequirements(text string) []string {
	var requirements []string
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.TrimSpace(s)
		if len(s) <= 10 || seen[s] {
			return
		}
		seen[s] = true
		requirements = append(requirements, s)
	}

	for _, re := range requirementRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 && m[1] != "" {
				add(m[1])
			} else {
				add(m[0])
			}
		}
	}

	// Requirement-like bullet points
	for _, m := range bulletRe.FindAllStringSubmatch(text, -1) {
		lower := strings.ToLower(m[1])
		for _, kw := range []string{"experience", "skill", "knowledge", "ability", "proficient"} {
			if strings.Contains(lower, kw) {
				add(m[1])
				break
			}
		}
	}

	if len(requirements) > 15 {
		requirements = requirements[:15]
	}
	return requirements
}

func determineExperienceLevel(lowerText string) string {
	counts := make(map[string]int)
	for level, phrases := range experienceLevels {
		for _, p := range phrases {
			if strings.Contains(lowerText, p) {
				counts[level]++
			}
		}
	}

	best, bestCount := "", 0
	for _, level := range []string{"entry", "mid", "senior"} {
		if counts[level] > bestCount {
			best, bestCount = level, counts[level]
		}
	}
	if best != "" {
		return best
	}

	// Fall back to the largest years-of-experience figure mentioned.
	maxYears := -1
	for _, m := range yearsRe.FindAllStringSubmatch(lowerText, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y > maxYears {
			maxYears = y
		}
	}
	switch {
	case maxYears < 0:
		return "unknown"
	case maxYears <= 2:
		return "entry"
	case maxYears <= 5:
		return "mid"
	default:
		return "senior"
	}
}

// ScoreMatch computes how well resume text covers a job's skills and keywords.
// Technical skills weigh 60%, general keywords 40%.
func ScoreMatch(resumeText string, job *model.JobAnalysis) *model.MatchScore {
	resumeLower := strings.ToLower(resumeText)

	var matchedTech, missingTech []string
	for _, skill := range job.TechnicalSkills {
		if strings.Contains(resumeLower, strings.ToLower(skill)) {
			matchedTech = append(matchedTech, skill)
		} else {
			missingTech = append(missingTech, skill)
		}
	}

	var matchedKeywords []string
	for _, kw := range job.Keywords {
		if strings.Contains(resumeLower, strings.ToLower(kw)) {
			matchedKeywords = append(matchedKeywords, kw)
		}
	}

	techScore := ratio(len(matchedTech), len(job.TechnicalSkills)) * 100
	keywordScore := ratio(len(matchedKeywords), len(job.Keywords)) * 100

	return &model.MatchScore{
		OverallScore:           round2(techScore*0.6 + keywordScore*0.4),
		TechnicalSkillsScore:   round2(techScore),
		KeywordScore:           round2(keywordScore),
		MatchedTechnicalSkills: matchedTech,
		MatchedKeywords:        matchedKeywords,
		MissingTechnicalSkills: missingTech,
	}
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
