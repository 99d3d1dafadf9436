package analyzer

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
)

// SkillSet is a skill vocabulary that can be swapped at runtime
type SkillSet struct {
	mu     sync.RWMutex
	skills []string
}

// NewSkillSet creates a vocabulary from the given skills
func NewSkillSet(skills []string) *SkillSet {
	s := &SkillSet{}
	s.Replace(skills)
	return s
}

// Replace swaps the vocabulary. Entries are lowercased, trimmed and deduplicated.
func (s *SkillSet) Replace(skills []string) {
	cleaned := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		cleaned = append(cleaned, skill)
	}

	s.mu.Lock()
	s.skills = cleaned
	s.mu.Unlock()
}

// Skills returns a copy of the current vocabulary
func (s *SkillSet) Skills() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.skills)
}

// Len returns the vocabulary size
func (s *SkillSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.skills)
}

// Find returns every vocabulary entry that appears in text as a
// case-insensitive substring, in vocabulary order.
func (s *SkillSet) Find(text string) []string {
	lower := strings.ToLower(text)

	s.mu.RLock()
	defer s.mu.RUnlock()

	found := []string{}
	for _, skill := range s.skills {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// CompareSkills returns the sorted skills present in both texts and the
// sorted job description skills absent from the CV.
func CompareSkills(cvSkills, jdSkills []string) (matching, missing []string) {
	inCV := make(map[string]bool, len(cvSkills))
	for _, skill := range cvSkills {
		inCV[skill] = true
	}

	matching = []string{}
	missing = []string{}
	seen := make(map[string]bool, len(jdSkills))
	for _, skill := range jdSkills {
		if seen[skill] {
			continue
		}
		seen[skill] = true
		if inCV[skill] {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	slices.Sort(matching)
	slices.Sort(missing)
	return matching, missing
}

// LoadSkillsFile reads one skill per line. Blank lines and lines starting with # are ignored.
func LoadSkillsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skills file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var skills []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skills = append(skills, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}
	if len(skills) == 0 {
		return nil, fmt.Errorf("skills file %s contains no skills", path)
	}
	return skills, nil
}
