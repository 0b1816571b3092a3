package mapper

import (
	"context"
	"fmt"
	"log/slog"
)

// SaveGlossaryTerms 保存待保存批次，新数据集术语获得 guid 后改写分发术语的关联，最后重新获取快照
func (m *Mapper) SaveGlossaryTerms(ctx context.Context) error {
	if m.snapshot == nil {
		return m.invalidState("saving glossary terms")
	}
	if len(m.pending) == 0 {
		m.metrics.IncMappingError(string(KindInvalidState))
		return newError(KindInvalidState, "no pending glossary terms, map a catalog first")
	}

	datasets := make([]int, 0)
	distributions := make([]int, 0)
	for i := range m.pending {
		switch m.schema.detect(&m.pending[i].Term) {
		case TermDataset:
			datasets = append(datasets, i)
		case TermDistribution:
			distributions = append(distributions, i)
		}
	}

	saved := make(map[int]bool, len(m.pending))
	for _, i := range datasets {
		dataset := &m.pending[i]
		original := dataset.Identity.Key
		if err := m.persist(ctx, dataset); err != nil {
			return err
		}
		saved[i] = true

		for _, j := range distributions {
			distribution := &m.pending[j]
			if saved[j] || !rewriteLinks(distribution, original, dataset.Term.GUID) {
				continue
			}
			if err := m.persist(ctx, distribution); err != nil {
				return err
			}
			saved[j] = true
		}
	}

	// 未关联任何数据集的分发
	for _, j := range distributions {
		if saved[j] {
			continue
		}
		if err := m.persist(ctx, &m.pending[j]); err != nil {
			return err
		}
	}

	m.logger.Info("Saved glossary terms",
		slog.String("glossary", m.cfg.GlossaryID),
		slog.Int("datasets", len(datasets)),
		slog.Int("distributions", len(distributions)))

	return m.FetchGlossary(ctx)
}

// persist 未持久化的术语去掉临时 guid 后创建，已持久化的术语就地更新
func (m *Mapper) persist(ctx context.Context, p *PendingTerm) error {
	if p.Identity.Persisted {
		if _, err := m.client.UpdateTerm(ctx, p.Term); err != nil {
			return fmt.Errorf("failed to update term %s: %w", p.Identity.Key, err)
		}
		m.metrics.IncSavedTerm("update")
		return nil
	}

	term := p.Term.Clone()
	term.GUID = ""
	created, err := m.client.CreateTerm(ctx, term)
	if err != nil {
		return fmt.Errorf("failed to create term %s: %w", p.Term.Name, err)
	}

	m.logger.Debug("Created glossary term",
		slog.String("name", p.Term.Name),
		slog.String("placeholder", p.Identity.Key),
		slog.String("guid", created.GUID))

	p.Term.GUID = created.GUID
	p.Identity = persistedIdentity(created.GUID)
	m.metrics.IncSavedTerm("create")
	return nil
}

// rewriteLinks 将指向 from 的关联改为 to，返回是否存在该关联
func rewriteLinks(p *PendingTerm, from, to string) bool {
	found := false
	for i := range p.Term.SeeAlso {
		if p.Term.SeeAlso[i].TermGUID == from {
			p.Term.SeeAlso[i].TermGUID = to
			found = true
		}
	}
	return found
}
