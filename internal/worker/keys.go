package worker

import (
	"context"
	"math/rand/v2"
)

// pickKey выбирает случайный ключ из пула. Пул перечитывается на
// каждый выбор: ротация ключей в БД подхватывается без рестарта.
// Пустой пул и ошибка чтения дают ok=false.
func (w *Worker) pickKey(ctx context.Context) (string, bool) {
	creds, err := w.keys.List(ctx)
	if err != nil {
		w.logger.Warn("failed to list api keys", "error", err)
		return "", false
	}
	if len(creds) == 0 {
		return "", false
	}

	return creds[rand.IntN(len(creds))].APIKey, true
}
