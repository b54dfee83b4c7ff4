package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gistshu/chr/internal/events"
	"github.com/gistshu/chr/internal/payroll"
	payrollerrors "github.com/gistshu/chr/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRequested merender slip gaji PDF untuk setiap event
// payslip_requested. Record yang sudah tidak ada di-commit dan dilewati;
// kegagalan render dibiarkan tanpa commit agar Kafka mengirim ulang.
func ConsumePayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip")
	log.Info("payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip consumer stopped")
				return
			}
			log.Error("fetch payslip message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		url, err := payrollService.GeneratePayslip(ctx, event.PayrollID)
		if err != nil {
			if errors.Is(err, payrollerrors.ErrPayrollNotFound) {
				log.Warn("payroll record gone, skipping payslip event",
					zap.String("payroll_id", event.PayrollID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("generate payslip failed",
				zap.String("payroll_id", event.PayrollID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated",
			zap.String("payroll_id", event.PayrollID),
			zap.String("payslip_url", url),
			zap.String("requested_by", event.RequestedBy),
		)
	}
}
