package orchestrator

import (
	"context"
	"fmt"
	"math"

	"github.com/procurelens/procurelens/internal/model"
)

// detectMaverickSpend flags transactions outside negotiated contracts. A
// transaction is maverick when its vendor holds no contract at all, when
// the vendor's contract does not cover the transaction's category, or when
// its unit price deviates from the contracted price beyond the configured
// threshold. The first matching rule wins.
func (o *Orchestrator) detectMaverickSpend(ctx context.Context, r DetectMaverickSpendRequest) (*model.MaverickReport, error) {
	txns, err := o.loadWindow(ctx, r.Window)
	if err != nil {
		return nil, err
	}

	contracts, err := o.contracts.GetActiveContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading contracts: %w", err)
	}

	byVendor := make(map[string]model.Contract, len(contracts))
	for _, c := range contracts {
		byVendor[c.VendorID] = c
	}

	report := &model.MaverickReport{
		SpendByReason: make(map[model.MaverickReason]float64),
		SpendByVendor: make(map[string]float64),
	}

	for _, txn := range txns {
		report.TotalSpend += txn.Amount

		reason, detail, ok := o.classifyMaverick(txn, byVendor)
		if !ok {
			continue
		}
		report.Records = append(report.Records, model.MaverickRecord{
			Transaction: txn,
			Reason:      reason,
			Detail:      detail,
		})
		report.MaverickSpend += txn.Amount
		report.SpendByReason[reason] += txn.Amount
		report.SpendByVendor[txn.VendorName] += txn.Amount
	}

	if report.TotalSpend > 0 {
		report.MaverickPct = report.MaverickSpend / report.TotalSpend * 100
	}
	return report, nil
}

func (o *Orchestrator) classifyMaverick(txn model.TransactionRecord, byVendor map[string]model.Contract) (model.MaverickReason, string, bool) {
	contract, contracted := byVendor[txn.VendorID]
	if !contracted {
		return model.ReasonNonContractedVendor,
			fmt.Sprintf("vendor %s has no active contract", txn.VendorName), true
	}

	if txn.Category != "" && !contract.Covers(txn.Category) {
		return model.ReasonOffContractCategory,
			fmt.Sprintf("contract with %s does not cover %s", txn.VendorName, txn.Category), true
	}

	if txn.ItemCode != "" && txn.UnitPrice > 0 {
		if contracted, ok := contract.ContractedPrices[txn.ItemCode]; ok && contracted > 0 {
			deviation := math.Abs(txn.UnitPrice-contracted) / contracted
			if deviation > o.config.PriceVarianceThreshold {
				return model.ReasonPriceDeviation,
					fmt.Sprintf("unit price %.2f deviates %.0f%% from contracted %.2f",
						txn.UnitPrice, deviation*100, contracted), true
			}
		}
	}

	return "", "", false
}
