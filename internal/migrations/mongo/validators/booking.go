package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"eventId",
			"email",
			"createdAt",
			"updatedAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"eventId": bson.M{
				"bsonType": "objectId",
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^\s@]+@[^\s@]+\.[^\s@]+$`,
			},

			"createdAt": bson.M{
				"bsonType": "date",
			},

			"updatedAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
