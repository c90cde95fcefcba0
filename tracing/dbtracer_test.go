package tracing

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroads/datarecording"
	"github.com/sarchlab/crossroads/sim"
)

// Simple test time teller implementation
type testTimeTeller struct {
	currentTime sim.VTimeInSec
}

func (t *testTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.currentTime
}

var _ = Describe("DBTracer", func() {
	var (
		timeTeller *testTimeTeller
		path       string
		recorder   datarecording.DataRecorder
		tracer     *DBTracer
	)

	readTasks := func() []*taskTableEntry {
		reader, err := datarecording.NewReader(path)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()

		reader.MapTable(taskTableName, taskTableEntry{})
		results, _, err := reader.Query(context.Background(), taskTableName,
			datarecording.QueryParams{OrderBy: "ID"})
		Expect(err).ToNot(HaveOccurred())

		tasks := make([]*taskTableEntry, 0, len(results))
		for _, r := range results {
			tasks = append(tasks, r.(*taskTableEntry))
		}

		return tasks
	}

	BeforeEach(func() {
		timeTeller = &testTimeTeller{}
		path = filepath.Join(GinkgoT().TempDir(), "trace")
		recorder = datarecording.New(path)
		tracer = NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		recorder.Close()
	})

	task := func(id string) Task {
		return Task{ID: id, Kind: "vehicle", What: "A2", Location: "Junction"}
	}

	It("should record finished tasks", func() {
		timeTeller.currentTime = 1
		tracer.StartTask(task("1"))

		timeTeller.currentTime = 3
		tracer.EndTask(task("1"))
		recorder.Flush()

		tasks := readTasks()
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].StartTime).To(Equal(1.0))
		Expect(tasks[0].EndTime).To(Equal(3.0))
		Expect(tasks[0].Location).To(Equal("Junction"))
	})

	It("should record steps of traced tasks only", func() {
		tracer.StartTask(task("1"))

		timeTeller.currentTime = 2
		tracer.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "turn_start"}}})
		tracer.StepTask(Task{ID: "2", Steps: []TaskStep{{What: "turn_start"}}})
		recorder.Flush()

		reader, err := datarecording.NewReader(path)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()

		reader.MapTable(stepTableName, stepTableEntry{})
		results, total, err := reader.Query(context.Background(),
			stepTableName, datarecording.QueryParams{})
		Expect(err).ToNot(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(results[0].(*stepTableEntry).Time).To(Equal(2.0))
	})

	It("should ignore tasks outside the time range", func() {
		tracer.SetTimeRange(5, 10)

		timeTeller.currentTime = 1
		tracer.StartTask(task("early"))
		timeTeller.currentTime = 2
		tracer.EndTask(task("early"))

		timeTeller.currentTime = 11
		tracer.StartTask(task("late"))
		tracer.EndTask(task("late"))

		timeTeller.currentTime = 4
		tracer.StartTask(task("overlap"))
		timeTeller.currentTime = 6
		tracer.EndTask(task("overlap"))
		recorder.Flush()

		tasks := readTasks()
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].ID).To(Equal("overlap"))
	})

	It("should write running tasks on terminate", func() {
		tracer.StartTask(task("b"))
		tracer.StartTask(task("a"))

		timeTeller.currentTime = 9
		tracer.Terminate()
		tracer.Terminate()
		tracer.StartTask(task("c"))

		tasks := readTasks()
		Expect(tasks).To(HaveLen(2))
		Expect(tasks[0].ID).To(Equal("a"))
		Expect(tasks[1].EndTime).To(Equal(9.0))
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() { tracer.StartTask(Task{ID: "1"}) }).To(Panic())
	})
})
