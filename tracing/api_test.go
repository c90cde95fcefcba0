package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/crossroads/sim"
)

var _ = Describe("API", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
		domain.EXPECT().Name().Return("Junction").AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should not invoke hooks if there is none", func() {
		domain.EXPECT().NumHooks().Return(0).Times(3)

		StartTask("1", "", domain, "vehicle", "A2", nil)
		AddTaskStep("1", domain, "turn_start")
		EndTask("1", domain)
	})

	It("should start tasks at the domain", func() {
		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))

			task := ctx.Item.(Task)
			Expect(task.ID).To(Equal("1"))
			Expect(task.Kind).To(Equal("vehicle"))
			Expect(task.What).To(Equal("A2"))
			Expect(task.Location).To(Equal("Junction"))
			Expect(task.Detail).To(Equal(42))
		})

		StartTask("1", "", domain, "vehicle", "A2", 42)
	})

	It("should report steps and ends", func() {
		domain.EXPECT().NumHooks().Return(1).Times(2)

		step := domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))
			Expect(ctx.Item.(Task).Steps[0].What).To(Equal("turn_start"))
		})
		domain.EXPECT().InvokeHook(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
			Expect(ctx.Item.(Task).ID).To(Equal("1"))
		}).After(step)

		AddTaskStep("1", domain, "turn_start")
		EndTask("1", domain)
	})

	It("should panic on incomplete tasks", func() {
		domain.EXPECT().NumHooks().Return(1).AnyTimes()

		Expect(func() { StartTask("", "", domain, "k", "w", nil) }).To(Panic())
		Expect(func() { StartTask("1", "", domain, "", "w", nil) }).To(Panic())
		Expect(func() { StartTask("1", "", domain, "k", "", nil) }).To(Panic())
	})
})

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
		domain   *testDomain
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		domain = &testDomain{ComponentBase: sim.NewComponentBase("Domain")}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward tasks to the tracer", func() {
		CollectTrace(domain, tracer)

		start := tracer.EXPECT().StartTask(gomock.Any())
		step := tracer.EXPECT().StepTask(gomock.Any()).After(start)
		tracer.EXPECT().EndTask(gomock.Any()).After(step)

		StartTask("1", "", domain, "vehicle", "A2", nil)
		AddTaskStep("1", domain, "turn_start")
		EndTask("1", domain)
	})

	It("should not add the same tracer twice", func() {
		CollectTrace(domain, tracer)

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})

type testDomain struct {
	*sim.ComponentBase
}
