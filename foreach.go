package ecs

// waitBindings blocks until every column a ForEach call touches is safe to
// touch: a write binding waits on both the column's write_handle and
// read_handle (nothing may still be reading or writing it); a read binding
// waits only on the write_handle (concurrent reads never conflict with each
// other, only with a pending write). This is the column-granularity
// scheduling discipline spec §4.6/§4.8 describes.
func waitBindings(w *World, chunk *ArchetypeChunk, bindings []Binding, cols []int) {
	for i, b := range bindings {
		col := &chunk.columns[cols[i]]
		w.jobs.Complete(col.writeHandle)
		if b.write {
			w.jobs.Complete(col.readHandle)
		}
	}
}

// commitBindings records handle as the new write_handle (write bindings) or
// folds it into the accumulated read_handle (read bindings, via Combine, so
// a later writer waits on every concurrent reader rather than only the most
// recent one) for every column a Schedule call touched.
func commitBindings(w *World, chunk *ArchetypeChunk, bindings []Binding, cols []int, handle JobHandle) {
	for i, b := range bindings {
		col := &chunk.columns[cols[i]]
		if b.write {
			col.writeHandle = handle
			col.readHandle = JobHandle{}
		} else {
			col.readHandle = w.jobs.Combine(col.readHandle, handle)
		}
	}
}

// resolveColumns looks up each binding's column index in chunk, returning
// ok=false if the chunk doesn't carry one (the caller's Query should have
// already guaranteed this; defensive only).
func resolveColumns(chunk *ArchetypeChunk, bindings []Binding) ([]int, bool) {
	cols := make([]int, len(bindings))
	for i, b := range bindings {
		idx := chunk.slotIndex(b.ct)
		if idx < 0 {
			return nil, false
		}
		cols[i] = idx
	}
	return cols, true
}

// foreachJob adapts a zero-argument closure into the Job interface so
// Schedule-mode dispatch can hand it to the JobGraph.
type foreachJob struct {
	fn func()
}

func (j foreachJob) Execute() { j.fn() }

// ForEach1 runs fn over every entity matching q, synchronously on the
// calling goroutine, after waiting for any outstanding jobs touching the
// bound column (spec §4.6 "Run mode").
func ForEach1[A any](w *World, q *Query, a Binding, fn func(Entity, *A)) {
	bindings := []Binding{a}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row])
		}
		w.unlock()
	}
}

// ScheduleForEach1 is ForEach1's deferred counterpart: the iteration body
// runs as a Job once its bound column's outstanding handles complete, and
// the returned JobHandle becomes the column's new handle (spec §4.6
// "Schedule mode").
func ScheduleForEach1[A any](w *World, q *Query, a Binding, fn func(Entity, *A), deps ...JobHandle) JobHandle {
	bindings := []Binding{a}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		colIdx := cols[0]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, colIdx)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row])
			}
		}}
		chainDeps := append(append([]JobHandle(nil), deps...), chunk.columns[colIdx].writeHandle)
		if a.write {
			chainDeps = append(chainDeps, chunk.columns[colIdx].readHandle)
		}
		handle := w.jobs.EnqueueAfter(job, chainDeps...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ForEach2 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach2[A, B any](w *World, q *Query, a, b Binding, fn func(Entity, *A, *B)) {
	bindings := []Binding{a, b}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row])
		}
		w.unlock()
	}
}

// ScheduleForEach2 is ForEach2's deferred counterpart.
func ScheduleForEach2[A, B any](w *World, q *Query, a, b Binding, fn func(Entity, *A, *B), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1 := cols[0], cols[1]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row])
			}
		}}
		chainDeps := append([]JobHandle(nil), deps...)
		for i, b := range bindings {
			col := &chunk.columns[cols[i]]
			chainDeps = append(chainDeps, col.writeHandle)
			if b.write {
				chainDeps = append(chainDeps, col.readHandle)
			}
		}
		handle := w.jobs.EnqueueAfter(job, chainDeps...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

func scheduleChainDeps(chunk *ArchetypeChunk, bindings []Binding, cols []int, deps []JobHandle) []JobHandle {
	chainDeps := append([]JobHandle(nil), deps...)
	for i, b := range bindings {
		col := &chunk.columns[cols[i]]
		chainDeps = append(chainDeps, col.writeHandle)
		if b.write {
			chainDeps = append(chainDeps, col.readHandle)
		}
	}
	return chainDeps
}

// ScheduleForEach3 is ForEach3's deferred counterpart.
func ScheduleForEach3[A, B, C any](w *World, q *Query, a, b, c Binding, fn func(Entity, *A, *B, *C), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2 := cols[0], cols[1], cols[2]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ScheduleForEach4 is ForEach4's deferred counterpart.
func ScheduleForEach4[A, B, C, D any](w *World, q *Query, a, b, c, d Binding, fn func(Entity, *A, *B, *C, *D), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c, d}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2, c3 := cols[0], cols[1], cols[2], cols[3]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			colD := columnSlice[D](chunk, c3)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ScheduleForEach5 is ForEach5's deferred counterpart.
func ScheduleForEach5[A, B, C, D, E any](w *World, q *Query, a, b, c, d, e Binding, fn func(Entity, *A, *B, *C, *D, *E), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c, d, e}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2, c3, c4 := cols[0], cols[1], cols[2], cols[3], cols[4]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			colD := columnSlice[D](chunk, c3)
			colE := columnSlice[E](chunk, c4)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ScheduleForEach6 is ForEach6's deferred counterpart.
func ScheduleForEach6[A, B, C, D, E, F any](w *World, q *Query, a, b, c, d, e, f Binding, fn func(Entity, *A, *B, *C, *D, *E, *F), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c, d, e, f}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2, c3, c4, c5 := cols[0], cols[1], cols[2], cols[3], cols[4], cols[5]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			colD := columnSlice[D](chunk, c3)
			colE := columnSlice[E](chunk, c4)
			colF := columnSlice[F](chunk, c5)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ScheduleForEach7 is ForEach7's deferred counterpart.
func ScheduleForEach7[A, B, C, D, E, F, G any](w *World, q *Query, a, b, c, d, e, f, g Binding, fn func(Entity, *A, *B, *C, *D, *E, *F, *G), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c, d, e, f, g}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2, c3, c4, c5, c6 := cols[0], cols[1], cols[2], cols[3], cols[4], cols[5], cols[6]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			colD := columnSlice[D](chunk, c3)
			colE := columnSlice[E](chunk, c4)
			colF := columnSlice[F](chunk, c5)
			colG := columnSlice[G](chunk, c6)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row], &colG[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ScheduleForEach8 is ForEach8's deferred counterpart.
func ScheduleForEach8[A, B, C, D, E, F, G, H any](w *World, q *Query, a, b, c, d, e, f, g, h Binding, fn func(Entity, *A, *B, *C, *D, *E, *F, *G, *H), deps ...JobHandle) JobHandle {
	bindings := []Binding{a, b, c, d, e, f, g, h}
	var last JobHandle
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		chunk := chunk
		c0, c1, c2, c3, c4, c5, c6, c7 := cols[0], cols[1], cols[2], cols[3], cols[4], cols[5], cols[6], cols[7]
		job := foreachJob{fn: func() {
			colA := columnSlice[A](chunk, c0)
			colB := columnSlice[B](chunk, c1)
			colC := columnSlice[C](chunk, c2)
			colD := columnSlice[D](chunk, c3)
			colE := columnSlice[E](chunk, c4)
			colF := columnSlice[F](chunk, c5)
			colG := columnSlice[G](chunk, c6)
			colH := columnSlice[H](chunk, c7)
			for row := 0; row < chunk.Count(); row++ {
				fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row], &colG[row], &colH[row])
			}
		}}
		handle := w.jobs.EnqueueAfter(job, scheduleChainDeps(chunk, bindings, cols, deps)...)
		commitBindings(w, chunk, bindings, cols, handle)
		last = handle
	}
	return last
}

// ForEach3 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach3[A, B, C any](w *World, q *Query, a, b, c Binding, fn func(Entity, *A, *B, *C)) {
	bindings := []Binding{a, b, c}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row])
		}
		w.unlock()
	}
}

// ForEach4 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach4[A, B, C, D any](w *World, q *Query, a, b, c, d Binding, fn func(Entity, *A, *B, *C, *D)) {
	bindings := []Binding{a, b, c, d}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		colD := columnSlice[D](chunk, cols[3])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row])
		}
		w.unlock()
	}
}

// ForEach5 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach5[A, B, C, D, E any](w *World, q *Query, a, b, c, d, e Binding, fn func(Entity, *A, *B, *C, *D, *E)) {
	bindings := []Binding{a, b, c, d, e}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		colD := columnSlice[D](chunk, cols[3])
		colE := columnSlice[E](chunk, cols[4])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row])
		}
		w.unlock()
	}
}

// ForEach6 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach6[A, B, C, D, E, F any](w *World, q *Query, a, b, c, d, e, f Binding, fn func(Entity, *A, *B, *C, *D, *E, *F)) {
	bindings := []Binding{a, b, c, d, e, f}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		colD := columnSlice[D](chunk, cols[3])
		colE := columnSlice[E](chunk, cols[4])
		colF := columnSlice[F](chunk, cols[5])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row])
		}
		w.unlock()
	}
}

// ForEach7 runs fn over every entity matching q (spec §4.6 "Run mode").
func ForEach7[A, B, C, D, E, F, G any](w *World, q *Query, a, b, c, d, e, f, g Binding, fn func(Entity, *A, *B, *C, *D, *E, *F, *G)) {
	bindings := []Binding{a, b, c, d, e, f, g}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		colD := columnSlice[D](chunk, cols[3])
		colE := columnSlice[E](chunk, cols[4])
		colF := columnSlice[F](chunk, cols[5])
		colG := columnSlice[G](chunk, cols[6])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row], &colG[row])
		}
		w.unlock()
	}
}

// ForEach8 runs fn over every entity matching q (spec §4.6 "Run mode"). This
// is the widest call-site arity this repo supports; the source's 50-column
// cap never made sense for a hand-bound Go builder (SPEC_FULL.md §9
// REDESIGN FLAG), but an unbounded one would just be dead code no caller
// exercises, so the family stops at 8.
func ForEach8[A, B, C, D, E, F, G, H any](w *World, q *Query, a, b, c, d, e, f, g, h Binding, fn func(Entity, *A, *B, *C, *D, *E, *F, *G, *H)) {
	bindings := []Binding{a, b, c, d, e, f, g, h}
	for _, chunk := range q.Chunks(w) {
		cols, ok := resolveColumns(chunk, bindings)
		if !ok {
			continue
		}
		waitBindings(w, chunk, bindings, cols)
		w.lock()
		colA := columnSlice[A](chunk, cols[0])
		colB := columnSlice[B](chunk, cols[1])
		colC := columnSlice[C](chunk, cols[2])
		colD := columnSlice[D](chunk, cols[3])
		colE := columnSlice[E](chunk, cols[4])
		colF := columnSlice[F](chunk, cols[5])
		colG := columnSlice[G](chunk, cols[6])
		colH := columnSlice[H](chunk, cols[7])
		for row := 0; row < chunk.Count(); row++ {
			fn(chunk.entities[row], &colA[row], &colB[row], &colC[row], &colD[row], &colE[row], &colF[row], &colG[row], &colH[row])
		}
		w.unlock()
	}
}
