package storage

import (
	"fmt"

	"atlasdcat/internal/glossary"
)

// linkRelated 为 seeAlso 中的每个目标术语补充指回 term 的关联，与 Atlas 的双向相关术语一致
func (s *TermStorage) linkRelated(glossaryID string, term glossary.Term) error {
	for _, related := range term.SeeAlso {
		if related.TermGUID == term.GUID {
			continue
		}

		target, err := s.readTerm(glossaryID, related.TermGUID)
		if err != nil {
			return fmt.Errorf("related term of %s: %w", term.GUID, err)
		}
		if hasRelated(target.SeeAlso, term.GUID) {
			continue
		}

		target.SeeAlso = append(target.SeeAlso, glossary.RelatedTerm{
			TermGUID:    term.GUID,
			DisplayText: term.Name,
		})
		if err := s.writeTerm(glossaryID, target); err != nil {
			return err
		}
	}

	return nil
}

func hasRelated(links []glossary.RelatedTerm, guid string) bool {
	for _, link := range links {
		if link.TermGUID == guid {
			return true
		}
	}
	return false
}
