package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/services"
)

const (
	ageFlag             = "age"
	sexFlag             = "sex"
	jobFlag             = "job"
	housingFlag         = "housing"
	savingAccountsFlag  = "saving-accounts"
	checkingAccountFlag = "checking-account"
	creditAmountFlag    = "credit-amount"
	durationFlag        = "duration"
)

func predictCommand() *cli.Command {
	defaults := models.DefaultApplicant()

	return &cli.Command{
		Name:  "predict",
		Usage: "Predict the credit risk of one applicant",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: ageFlag, Usage: "Applicant age (18-80)", Value: defaults.Age},
			&cli.StringFlag{Name: sexFlag, Usage: "Applicant sex (male, female)", Value: defaults.Sex},
			&cli.IntFlag{Name: jobFlag, Usage: "Employment level (0-3)", Value: defaults.Job},
			&cli.StringFlag{Name: housingFlag, Usage: "Housing situation (own, rent, free)", Value: defaults.Housing},
			&cli.StringFlag{
				Name:  savingAccountsFlag,
				Usage: "Savings level (little, moderate, rich, quite rich)",
				Value: defaults.SavingAccounts,
			},
			&cli.StringFlag{
				Name:  checkingAccountFlag,
				Usage: "Checking account balance level (little, moderate, rich)",
				Value: defaults.CheckingAccount,
			},
			&cli.IntFlag{Name: creditAmountFlag, Usage: "Requested credit amount", Value: defaults.CreditAmount},
			&cli.IntFlag{Name: durationFlag, Usage: "Credit duration in months", Value: defaults.Duration},
		},
		Action: predict,
	}
}

func applicantFromFlags(cmd *cli.Command) models.Applicant {
	return models.Applicant{
		Age:             cmd.Int(ageFlag),
		Sex:             cmd.String(sexFlag),
		Job:             cmd.Int(jobFlag),
		Housing:         cmd.String(housingFlag),
		SavingAccounts:  cmd.String(savingAccountsFlag),
		CheckingAccount: cmd.String(checkingAccountFlag),
		CreditAmount:    cmd.Int(creditAmountFlag),
		Duration:        cmd.Int(durationFlag),
	}
}

func predict(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	applicant := applicantFromFlags(cmd)
	if err := applicant.Validate(); err != nil {
		return err
	}

	assets, err := loadAssets(cmd, log)
	if err != nil {
		return err
	}

	start := time.Now()
	outcome, err := services.NewPredictorService(assets, nil, log).Predict(ctx, applicant)
	if err != nil {
		return fmt.Errorf("prediction failed (%s): %w", services.FailureReason(err), err)
	}
	log.Debug("prediction completed", zap.Duration("took", time.Since(start)))

	return output(cmd, outcome.Response())
}
