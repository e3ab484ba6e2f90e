// Package testing provides test infrastructure for oracle components.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: an engine over a private ledger with named accounts
//   - Account: ledger accounts with a signing key, referenced by name in
//     failure messages
//   - Assertions: helpers for results, balances and prices
//
// # Basic Usage
//
//	func TestUpdate(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//
//	    admin := env.Account("admin")
//	    oracle, result := env.InstantiateOracle(admin, 1)
//	    testing.RequireTxSuccess(t, result)
//
//	    btc := env.CreateFungible(admin, "BTC", "21", 8)
//	    usd := env.CreateFungible(admin, "USD", "1000", 2)
//
//	    result = env.UpdatePrice(admin, oracle, btc, usd, "1.5")
//	    testing.RequireTxSuccess(t, result)
//	    testing.RequirePrice(t, env, oracle, usd, btc, "0.666666666666666666")
//	}
//
// # TestEnv
//
// NewTestEnv runs over in-memory storage. NewTestEnvBacked runs over a
// pebble database in a temporary directory; combine it with Restart to
// check that components and prices survive a reload.
//
//	env.Account("alice")                     // created on first use
//	env.Balance(alice, badge)                // vault balance
//	env.Resource("Oracle Admin Badge")       // lookup by name metadata
//	env.Transfer(alice, bob, badge, "1")     // move badges between admins
//	env.Auth(alice, "transfer", args)        // sign at alice's next sequence
//	env.TransferAuth(auth, bob, badge, "1")  // submit a caller-built auth
//	env.Restart()                            // new engine, same ledger
//
// # Assertions
//
//	testing.RequireTxSuccess(t, result)
//	testing.RequireTxFail(t, result, testing.TecNO_PERMISSION)
//	testing.RequireBalance(t, env, alice, badge, "1")
//	testing.RequireNoPrice(t, env, oracle, btc, usd)
//	testing.RequireReciprocal(t, env, oracle, btc, usd)
package testing
