package sqlite

// seedLocked stores the seed records in one transaction. It only runs when buffers.jsonl held no records on attach, so user data
// is never overwritten. The caller must hold b.mu.
func (b *Backend) seedLocked() error {
	records, err := b.seed()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	if err := b.putAllLocked(records); err != nil {
		return err
	}
	b.logger.Info().Int("buffers", len(records)).Msg("seeded built-in data")
	return nil
}
