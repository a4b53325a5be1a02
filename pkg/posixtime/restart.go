package posixtime

import "context"

// SleepFull спит d целиком: после каждого прерывания сигналом досыпает остаток,
// пока сон не завершится или не будет отменён ctx. Возвращает число перезапусков.
// Это повтор на стороне вызывающего: сам Engine.Sleep никогда не повторяет вызов.
func SleepFull(ctx context.Context, e *Engine, d TimeValue) (int, error) {
	return restart(ctx, d, func(d TimeValue) (SleepOutcome, error) {
		return e.Sleep(d)
	}, false)
}

// SleepOnFull — то же для clock_nanosleep. При abs = true после прерывания
// повторяется сон до того же дедлайна, иначе — на остаток.
func SleepOnFull(ctx context.Context, e *Engine, clk ClockID, d TimeValue, abs bool) (int, error) {
	return restart(ctx, d, func(d TimeValue) (SleepOutcome, error) {
		return e.SleepOn(clk, d, abs)
	}, abs)
}

func restart(ctx context.Context, d TimeValue, sleep func(TimeValue) (SleepOutcome, error), sameDeadline bool) (int, error) {
	for restarts := 0; ; restarts++ {
		out, err := sleep(d)
		if err != nil {
			return restarts, err
		}
		if !out.Interrupted {
			return restarts, nil
		}
		if err := ctx.Err(); err != nil {
			return restarts, err
		}
		if !sameDeadline {
			d = out.Remaining
		}
	}
}
