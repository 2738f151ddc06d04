package rag

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/smartresume-api/internal/model"
)

// Chunk types stored alongside each vector.
const (
	ChunkContact        = "contact_info"
	ChunkSummary        = "summary"
	ChunkExperience     = "experience"
	ChunkSkills         = "skills"
	ChunkEducation      = "education"
	ChunkProjects       = "projects"
	ChunkCertifications = "certifications"
	ChunkOther          = "other"
)

// ChunkResume breaks a parsed resume into typed, embeddable chunks. Each
// experience paragraph becomes its own chunk so retrieval can rank
// individual roles against a job description.
func ChunkResume(sessionID uuid.UUID, parsed *model.ParsedResume) []model.Chunk {
	var chunks []model.Chunk

	add := func(chunkType, prefix, text string, meta map[string]string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		chunks = append(chunks, model.Chunk{
			ID:        uuid.New(),
			SessionID: sessionID,
			Type:      chunkType,
			Text:      prefix + text,
			Metadata:  meta,
		})
	}

	add(ChunkContact, "Contact Information: ", parsed.Sections.ContactInfo, nil)
	add(ChunkSummary, "Professional Summary: ", parsed.Sections.Summary, nil)

	for i, entry := range splitEntries(parsed.Sections.Experience) {
		add(ChunkExperience, "Experience: ", entry, map[string]string{
			"position": strconv.Itoa(i),
		})
	}

	add(ChunkSkills, "Skills: ", parsed.Sections.Skills, nil)

	for i, entry := range splitEntries(parsed.Sections.Education) {
		add(ChunkEducation, "Education: ", entry, map[string]string{
			"position": strconv.Itoa(i),
		})
	}

	add(ChunkProjects, "Projects: ", parsed.Sections.Projects, nil)
	add(ChunkCertifications, "Certifications: ", parsed.Sections.Certifications, nil)
	add(ChunkOther, "", parsed.Sections.Other, nil)

	// A resume with no recognizable sections still gets indexed whole.
	if len(chunks) == 0 {
		add(ChunkOther, "", parsed.FormattedText, nil)
	}

	return chunks
}

// splitEntries splits a section into paragraph-sized entries. Blank lines
// separate entries; a section without blank lines is one entry.
func splitEntries(section string) []string {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil
	}

	var entries []string
	var current []string
	for _, line := range strings.Split(section, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				entries = append(entries, strings.Join(current, "\n"))
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimSpace(line))
	}
	if len(current) > 0 {
		entries = append(entries, strings.Join(current, "\n"))
	}
	return entries
}
