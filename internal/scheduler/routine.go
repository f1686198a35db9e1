package scheduler

// routineStep is one popup of the eye-care break sequence.
type routineStep struct {
	Message string
	Seconds int
}

// eyeCareRoutine is the fixed break sequence. Steps run back to back on the
// loop goroutine; the whole sequence is uninterruptible once started.
var eyeCareRoutine = []routineStep{
	{"Break time!", 3},
	{"Let's unwind your eyes and neck", 3},
	{"Close your eyes for 5 seconds and roll them", 6},
	{"Look at something far away for 20 seconds", 21},
	{"Stretch your neck to the left", 3},
	{"Now to the right", 3},
	{"Now look up for 3 seconds", 3},
	{"Now look down for 3 seconds", 3},
	{"Good job! See you at the next one", 2},
}

func routineTotalSeconds() int {
	total := 0
	for _, step := range eyeCareRoutine {
		total += step.Seconds
	}
	return total
}
