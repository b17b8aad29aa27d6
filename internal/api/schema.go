// Package api declares the typed operation contract the resolvers serve.
// Field names, argument shapes, and nullability are the compatibility
// surface UI clients depend on and must not drift.
package api

// Operation names, as dispatched by the query endpoint
const (
	OpContactCount       = "contactCount"
	OpListContacts       = "listContacts"
	OpFindContact        = "findContact"
	OpListAccounts       = "listAccounts"
	OpMe                 = "me"
	OpCreateContact      = "createContact"
	OpUpdateContactPhone = "updateContactPhone"
	OpCreateAccount      = "createAccount"
	OpLogin              = "login"
	OpAddFriend          = "addFriend"
)

// Schema is the contract text for the API surface
const Schema = `
	type Account {
		username: String!
		friends: [Contact!]!
		id: ID!
	}

	type Token {
		value: String!
	}

	type Address {
		street: String!
		city: String!
	}

	type Contact {
		name: String!
		phone: String
		address: Address!
		id: ID!
	}

	enum YesNo {
		YES
		NO
	}

	type Query {
		contactCount: Int!
		listContacts(phone: YesNo): [Contact!]!
		findContact(name: String!): Contact
		me: Account
		listAccounts: [Account!]!
	}

	type Mutation {
		createContact(
			name: String!
			phone: String
			street: String!
			city: String!
		): Contact

		updateContactPhone(
			name: String!
			phone: String!
		): Contact

		createAccount(
			username: String!
		): Account

		login(
			username: String!
			password: String!
		): Token

		addFriend(
			name: String!
		): Account
	}
`
